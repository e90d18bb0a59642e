package sat

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
const (
	exitSatisfiable   = 10
	exitUnsatisfiable = 20
)

// runSolver feeds stdin to the executable and reports whether the instance is satisfiable along with the captured standard output
func runSolver(ctx context.Context, name string, stdin string, path string, args ...string) (satisfiable bool, stdOut string, err error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var outBuffer bytes.Buffer
	cmd.Stdout = &outBuffer
	var errBuffer bytes.Buffer
	cmd.Stderr = &errBuffer

	err = cmd.Run()
	if ctx.Err() != nil {
		return false, "", fmt.Errorf("%v execution interrupted: %w", name, ctx.Err())
	}
	if cmd.ProcessState == nil {
		return false, "", fmt.Errorf("cannot start %v: %w", name, err)
	}

	switch exitCode := cmd.ProcessState.ExitCode(); {
	case exitCode == exitUnsatisfiable:
		return false, "", nil
	case exitCode == exitSatisfiable:
		return true, outBuffer.String(), nil
	case err != nil:
		return false, "", fmt.Errorf("an error occurred during %v execution: %v : %v", name, err.Error(), errBuffer.String())
	default:
		return false, "", fmt.Errorf("%v exited without a verdict: %v", name, errBuffer.String())
	}
}

// parseSolution extracts the literals from the "v" lines of a competition-format solver output
func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.FlatMap(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(line string, _ int) []string {
			return strings.Fields(line[1:])
		},
	)
	return parseLiterals(fields)
}

func parseLiterals(fields []string) (SATSolution, error) {
	solution := make(SATSolution, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %w", err)
		}
		// Zero terminates the assignment
		if value == 0 {
			break
		}
		solution = append(solution, value)
	}
	return solution, nil
}
