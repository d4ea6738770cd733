package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PENNYWISE_CONFIG", "PENNYWISE_DB", "PENNYWISE_USER", "PENNYWISE_LOG_MODE",
		"PENNYWISE_REMOTE_URL", "PENNYWISE_REMOTE_TOKEN", "PENNYWISE_JWT_SECRET",
		"PENNYWISE_LLM_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

// execute runs the root command and restores every flag afterwards, since
// cobra keeps flag values between runs.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { resetFlags(rootCmd) })

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestPrintCourses(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []progress.LessonProgress{
		{LessonID: "lesson-1", Completed: true, Accuracy: 80, XPEarned: 120, CompletedAt: &at},
	}

	var buf bytes.Buffer
	printCourses(&buf, catalog.Builtin(), records)
	out := buf.String()

	assert.Contains(t, out, "Budgeting Basics  (1/5)")
	assert.Contains(t, out, "80% accuracy")
	assert.Contains(t, out, "▸ lesson-2")
	assert.Contains(t, out, "· lesson-3")
	assert.Contains(t, out, "▸ credit-1")
}

func TestPrintStats(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := progress.UserProgress{UserID: "ana", XP: 230, Level: 3, Streak: 4, Hearts: 2, LastCompletedLesson: &at}
	records := []progress.LessonProgress{
		{LessonID: "lesson-1", Completed: true, Accuracy: 100, XPEarned: 100, CompletedAt: &at},
		{LessonID: "lesson-2", Completed: false},
	}

	var buf bytes.Buffer
	printStats(&buf, catalog.Builtin(), p, records)
	out := buf.String()

	assert.Contains(t, out, "Profile:  ana")
	assert.Contains(t, out, "Level:    3 (230 XP, 70 to Level 4)")
	assert.Contains(t, out, "Streak:   4 days")
	assert.Contains(t, out, "2/5")
	assert.Contains(t, out, "Completed lessons: 1/")
	assert.Contains(t, out, "100%  +100 XP")
}

func TestStats_FreshProfileShowsDefaults(t *testing.T) {
	isolateEnv(t)
	db := filepath.Join(t.TempDir(), "p.db")

	out, err := execute(t, "", "stats", "--db", db, "--user", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile:  ana")
	assert.Contains(t, out, "Level:    1 (0 XP, 100 to Level 2)")
	assert.Contains(t, out, "5/5")
}

func TestReset_HeartsOnly(t *testing.T) {
	isolateEnv(t)
	db := filepath.Join(t.TempDir(), "p.db")

	out, err := execute(t, "", "reset", "--hearts", "--db", db, "--user", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, "Hearts refilled for ana: 5/5")
}

func TestReset_AbortsWithoutConfirmation(t *testing.T) {
	isolateEnv(t)
	db := filepath.Join(t.TempDir(), "p.db")

	out, err := execute(t, "n\n", "reset", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
}

func TestReset_Confirmed(t *testing.T) {
	isolateEnv(t)
	db := filepath.Join(t.TempDir(), "p.db")

	out, err := execute(t, "", "reset", "--yes", "--db", db, "--user", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress for ana reset.")
}

func TestUserFlagOverridesEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PENNYWISE_USER", "from-env")
	db := filepath.Join(t.TempDir(), "p.db")

	out, err := execute(t, "", "stats", "--db", db, "--user", "from-flag")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile:  from-flag")

	out, err = execute(t, "", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Profile:  from-env")
}

func TestToken_RequiresSecret(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "", "token", "ana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestToken_Issues(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PENNYWISE_JWT_SECRET", "test-secret")

	out, err := execute(t, "", "token", "ana")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(strings.TrimSpace(out), ".")))
}

func TestPlay_UnknownLesson(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "", "play", "no-such-lesson", "--guest")
	require.ErrorIs(t, err, catalog.ErrLessonNotFound)
}
