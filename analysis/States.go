package analysis

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// LoadStates reads the states in a datafile. Each line holds a single
// state as env.StateWidth() whitespace separated integers. Blank lines
// and text following a '#' are ignored. Each integer must be less than
// env.OneHotSize()/env.StateWidth().
func LoadStates(path string, env environment.Environment) (
	*environment.States, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap("loadstates", errs.PersistenceFailure, err)
	}
	defer f.Close()

	width := env.StateWidth()
	values := uint64(env.OneHotSize() / width)
	var data []uint8

	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != width {
			return nil, errs.New("loadstates", errs.InvalidArgument,
				"%v:%v: invalid state width \n\twant(%v) \n\thave(%v)", path,
				line, width, len(fields))
		}

		for _, field := range fields {
			value, err := strconv.ParseUint(field, 10, 8)
			if err != nil {
				return nil, errs.New("loadstates", errs.InvalidArgument,
					"%v:%v: %v", path, line, err)
			}
			if value >= values {
				return nil, errs.New("loadstates", errs.InvalidArgument,
					"%v:%v: value out of range \n\twant(<%v) \n\thave(%v)",
					path, line, values, value)
			}
			data = append(data, uint8(value))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap("loadstates", errs.PersistenceFailure, err)
	}
	if len(data) == 0 {
		return nil, errs.New("loadstates", errs.InvalidArgument,
			"no states in %v", path)
	}

	states, err := environment.NewStatesFrom(data, width)
	if err != nil {
		return nil, fmt.Errorf("loadStates: %w", err)
	}
	return states, nil
}
