package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	app := newApp()
	require.NotNil(t, app)
	assert.Equal(t, "f1score", app.Name)
	require.NotNil(t, app.Before)
	require.NotNil(t, app.After)

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	for _, want := range []string{"score", "server", "import", "enrich", "merge", "query", "artifacts"} {
		assert.Contains(t, names, want)
	}
}
