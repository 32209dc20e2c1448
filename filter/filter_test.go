package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedrun-tools/srcom/srcom"
)

func sampleRun() RunData {
	return RunData{
		ID:       "abc123",
		Game:     "nd2ee5ed",
		Category: "7kjp314k",
		Status:   "verified",
		Comment:  "Glitchless run, new PB",
		Platform: "8gej2n93",
		Emulated: false,
		Seconds:  3723.5,
		Date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Players:  []string{"shigs", "visitor"},
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{
			name:       "simple comparison",
			expression: `Run.Seconds < 3600`,
		},
		{
			name:       "boolean combination",
			expression: `Run.Status == "verified" and !Run.Emulated`,
		},
		{
			name:       "helper call",
			expression: `hasPlayer("shigs") or contains(Run.Comment, "glitchless")`,
		},
		{
			name:       "empty expression",
			expression: "   ",
			wantErr:    true,
		},
		{
			name:       "syntax error",
			expression: `Run.Seconds <`,
			wantErr:    true,
		},
		{
			name:       "non-boolean result",
			expression: `Run.Seconds + 1`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.String())
		})
	}
}

func TestMatch(t *testing.T) {
	run := sampleRun()

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{"seconds below bound", `Run.Seconds < 4000`, true},
		{"seconds above bound", `Run.Seconds < 3600`, false},
		{"status equality", `Run.Status == "verified"`, true},
		{"emulated flag", `Run.Emulated`, false},
		{"player lookup case-insensitive", `hasPlayer("SHIGS")`, true},
		{"player not present", `hasPlayer("nobody")`, false},
		{"comment search", `contains(Run.Comment, "glitchless")`, true},
		{"date comparison", `Run.Date < parseDate("2025-01-01")`, true},
		{"combined", `Run.Status == "verified" and Run.Seconds < 4000 and !Run.Emulated`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Match(run)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	fast := sampleRun()
	fast.ID = "fast"
	fast.Seconds = 1800

	slow := sampleRun()
	slow.ID = "slow"
	slow.Seconds = 7200

	rejected := sampleRun()
	rejected.ID = "rejected"
	rejected.Status = "rejected"

	f, err := Compile(`Run.Status == "verified" and Run.Seconds < 3600`)
	require.NoError(t, err)

	matched, err := Apply(f, []RunData{fast, slow, rejected})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "fast", matched[0].ID)
}

func TestFromRun(t *testing.T) {
	run := srcom.Run{
		ID:       "abc123",
		Game:     "nd2ee5ed",
		Category: "7kjp314k",
		Comment:  "nice",
		Date:     "2024-03-10",
		Status:   srcom.RunStatus{Status: "verified"},
		Times:    srcom.RunTimes{PrimaryT: 3723.5},
		System:   srcom.RunSystem{Platform: "8gej2n93", Emulated: true},
		Players: []srcom.RunPlayer{
			{Rel: "user", ID: "u1"},
			{Rel: "user", ID: "u2"},
			{Rel: "guest", Name: "visitor"},
		},
	}

	data := FromRun(run, map[string]string{"u1": "alpha"})

	assert.Equal(t, "abc123", data.ID)
	assert.Equal(t, "verified", data.Status)
	assert.Equal(t, 3723.5, data.Seconds)
	assert.True(t, data.Emulated)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), data.Date)
	// Resolved name, fallback to ID, guest name
	assert.Equal(t, []string{"alpha", "u2", "visitor"}, data.Players)
}
