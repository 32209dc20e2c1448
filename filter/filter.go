// Package filter evaluates expr expressions against speedrun.com runs,
// letting search output be narrowed client-side beyond what the API's
// query parameters can express.
package filter

import (
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/speedrun-tools/srcom/srcom"
)

// RunData is the environment a filter expression sees for one run.
type RunData struct {
	ID       string
	Game     string
	Category string
	Level    string
	Status   string
	Reason   string
	Comment  string
	Platform string
	Emulated bool
	Seconds  float64 // primary time in seconds
	Date     time.Time
	Players  []string // resolved display names, IDs where unresolved
}

// FromRun converts an API run into filter input. names maps user IDs to
// display names; unresolved players keep their ID or guest name.
func FromRun(run srcom.Run, names map[string]string) RunData {
	data := RunData{
		ID:       run.ID,
		Game:     run.Game,
		Category: run.Category,
		Level:    run.Level,
		Status:   run.Status.Status,
		Reason:   run.Status.Reason,
		Comment:  run.Comment,
		Platform: run.System.Platform,
		Emulated: run.System.Emulated,
		Seconds:  run.Times.PrimaryT,
	}
	if t, err := time.Parse("2006-01-02", run.Date); err == nil {
		data.Date = t
	}
	for _, player := range run.Players {
		switch {
		case player.Rel == "guest":
			data.Players = append(data.Players, player.Name)
		case names[player.ID] != "":
			data.Players = append(data.Players, names[player.ID])
		default:
			data.Players = append(data.Players, player.ID)
		}
	}
	return data
}

// Filter is a compiled expression applicable to runs.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expr filter expression. The expression must yield a
// boolean.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(environment(RunData{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Match evaluates the filter against one run.
func (f *Filter) Match(run RunData) (bool, error) {
	result, err := expr.Run(f.program, environment(run))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			RunID:      run.ID,
			Reason:     err.Error(),
			Err:        err,
		}
	}
	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			RunID:      run.ID,
			Reason:     "expression did not yield a boolean",
		}
	}
	return matched, nil
}

// String returns the original expression.
func (f *Filter) String() string {
	return f.expression
}

// Apply returns the runs matching the filter. The first evaluation error
// aborts the pass.
func Apply(f *Filter, runs []RunData) ([]RunData, error) {
	var matched []RunData
	for _, run := range runs {
		ok, err := f.Match(run)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, run)
		}
	}
	return matched, nil
}

// environment builds the expression environment: the run's fields plus
// helper functions.
func environment(run RunData) map[string]any {
	return map[string]any{
		"Run": run,

		"hasPlayer": func(name string) bool {
			for _, p := range run.Players {
				if strings.EqualFold(p, name) {
					return true
				}
			}
			return false
		},

		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},

		// String helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,

		"now": time.Now,
	}
}
