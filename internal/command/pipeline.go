package command

import "strings"

// MaxStages caps the number of pipeline stages; extra stages are ignored.
const MaxStages = 20

// HasPipe reports whether cmd contains an unescaped pipe.
func HasPipe(cmd string) bool {
	return len(pipeOffsets(cmd)) > 0
}

// SplitPipeline splits cmd on unescaped pipes. An escaped pipe stays in the
// stage text for sh to interpret. Stages are trimmed and empty stages are
// dropped.
func SplitPipeline(cmd string) []string {
	var stages []string
	start := 0
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" && len(stages) < MaxStages {
			stages = append(stages, s)
		}
	}
	for _, off := range pipeOffsets(cmd) {
		add(cmd[start:off])
		start = off + 1
	}
	add(cmd[start:])
	return stages
}

func pipeOffsets(cmd string) []int {
	var offs []int
	for i := 0; i < len(cmd); i++ {
		switch cmd[i] {
		case '\\':
			i++
		case '|':
			offs = append(offs, i)
		}
	}
	return offs
}
