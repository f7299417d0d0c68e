package tuitest

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Frame is the visible screen right before the program started redrawing it.
type Frame struct {
	Index int
	// ANSI holds the raw bytes that produced this frame since the previous one.
	ANSI  string
	Plain string
}

// FinalFrame returns the last captured frame. The second return value is false
// when no frames were recorded.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// FrameContaining returns the latest frame whose plain text contains text.
func (r *Recording) FrameContaining(text string) (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	return lastFrameContaining(r.Frames, text)
}

func lastFrameContaining(frames []Frame, text string) (Frame, bool) {
	for i := len(frames) - 1; i >= 0; i-- {
		if strings.Contains(frames[i].Plain, text) {
			return frames[i], true
		}
	}
	return Frame{}, false
}

// parseFrames replays raw terminal output on a line-oriented screen. Inline
// renderers repaint by moving the cursor up and rewriting lines, full-screen
// ones by homing the cursor or clearing, so a frame is captured whenever a
// repaint starts.
func parseFrames(raw []byte) []Frame {
	var (
		scr    screen
		frames []Frame
		mark   int
	)
	capture := func(end int) {
		plain := scr.plain()
		if strings.TrimSpace(plain) == "" {
			return
		}
		if n := len(frames); n > 0 && frames[n-1].Plain == plain {
			return
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: string(raw[mark:end]), Plain: plain})
		mark = end
	}

	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\x1b':
			if i+1 >= len(raw) {
				continue
			}
			switch raw[i+1] {
			case '[':
				params, final, last := readCSI(raw, i+2)
				if redraws(final, params) {
					capture(i)
				}
				scr.csi(params, final)
				i = last
			case ']':
				i = skipOSC(raw, i+2)
			default:
				i++
			}
		case '\r':
			scr.col = 0
		case '\n':
			scr.row++
			scr.col = 0
		case '\x00', '\x07', '\x0e', '\x0f':
		default:
			r, size := utf8.DecodeRune(raw[i:])
			scr.put(r)
			i += size - 1
		}
	}
	capture(len(raw))
	return frames
}

// redraws reports whether a control sequence begins a repaint.
func redraws(final byte, params string) bool {
	switch final {
	case 'A':
		return true
	case 'J':
		return params == "2" || params == "3"
	case 'H':
		return params == "" || params == "1;1"
	}
	return false
}

// readCSI returns the parameter bytes and final byte of a CSI sequence whose
// parameters start at i, plus the index of the final byte.
func readCSI(raw []byte, i int) (string, byte, int) {
	start := i
	for ; i < len(raw); i++ {
		if b := raw[i]; b >= 0x40 && b <= 0x7e {
			return string(raw[start:i]), b, i
		}
	}
	return string(raw[start:]), 0, len(raw) - 1
}

// skipOSC returns the index of the terminator of an OSC sequence (BEL or ST).
func skipOSC(raw []byte, i int) int {
	for ; i < len(raw); i++ {
		if raw[i] == '\x07' {
			return i
		}
		if raw[i] == '\x1b' && i+1 < len(raw) && raw[i+1] == '\\' {
			return i + 1
		}
	}
	return len(raw) - 1
}

type screen struct {
	lines    [][]rune
	row, col int
}

func (s *screen) line() []rune {
	for len(s.lines) <= s.row {
		s.lines = append(s.lines, nil)
	}
	return s.lines[s.row]
}

func (s *screen) put(r rune) {
	line := s.line()
	for len(line) < s.col {
		line = append(line, ' ')
	}
	if s.col < len(line) {
		line[s.col] = r
	} else {
		line = append(line, r)
	}
	s.lines[s.row] = line
	s.col++
}

func (s *screen) csi(params string, final byte) {
	if strings.HasPrefix(params, "?") {
		return
	}
	n := firstParam(params, 1)
	switch final {
	case 'A':
		s.row = max(s.row-n, 0)
	case 'B':
		s.row += n
	case 'C':
		s.col += n
	case 'D':
		s.col = max(s.col-n, 0)
	case 'G':
		s.col = max(n-1, 0)
	case 'H', 'f':
		s.row, s.col = 0, 0
		if parts := strings.SplitN(params, ";", 2); len(parts) == 2 {
			s.row = max(firstParam(parts[0], 1)-1, 0)
			s.col = max(firstParam(parts[1], 1)-1, 0)
		} else if params != "" {
			s.row = max(n-1, 0)
		}
	case 'K':
		line := s.line()
		switch firstParam(params, 0) {
		case 0:
			if s.col < len(line) {
				s.lines[s.row] = line[:s.col]
			}
		case 1:
			for i := 0; i < s.col && i < len(line); i++ {
				line[i] = ' '
			}
		case 2:
			s.lines[s.row] = nil
		}
	case 'J':
		switch firstParam(params, 0) {
		case 0:
			if s.row < len(s.lines) {
				line := s.line()
				if s.col < len(line) {
					s.lines[s.row] = line[:s.col]
				}
				s.lines = s.lines[:s.row+1]
			}
		default:
			s.lines = nil
		}
	}
}

func firstParam(params string, fallback int) int {
	head, _, _ := strings.Cut(params, ";")
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 {
		return fallback
	}
	if n == 0 && fallback == 1 {
		return 1
	}
	return n
}

func (s *screen) plain() string {
	lines := make([]string, len(s.lines))
	for i, line := range s.lines {
		lines[i] = strings.TrimRight(string(line), " ")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
