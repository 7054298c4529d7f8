package compile

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunCleanProgramEmitsTAC(t *testing.T) {
	r := Run([]byte("int x; x = 3 + 4."), silentLogger())
	require.True(t, r.Clean())
	require.NoError(t, r.AggregateError())
	assert.Equal(t, "\tGoto main0;\nmain0:\n\tBeginFunc 4;\n\tx0 = 3 + 4;\n\tEndFunc;\n", r.Program.String())
}

func TestRunSemanticErrorSkipsTAC(t *testing.T) {
	r := Run([]byte("int x; double y; x = y."), silentLogger())
	require.False(t, r.Clean())
	require.Error(t, r.AggregateError())
	assert.NotEmpty(t, r.Errors)
	assert.Nil(t, r.Program)
}

func TestFormatSymbolTableNonEmptyOnCleanProgram(t *testing.T) {
	r := Run([]byte("int x; x = 1."), silentLogger())
	require.True(t, r.Clean())
	assert.Contains(t, FormatSymbolTable(r), "scope 0")
}
