package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "migrate", "seed", "reconcile", "import"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	reconcile, _, err := root.Find([]string{"reconcile"})
	require.NoError(t, err)
	assert.NotNil(t, reconcile.Flags().Lookup("fix"))

	importCmd, _, err := root.Find([]string{"import"})
	require.NoError(t, err)
	assert.Equal(t, "admin@rental.local", importCmd.Flags().Lookup("as").DefValue)
}

func TestSeedCmd_RequiresSelection(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"seed"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to seed")
}

func TestImportCmd_RequiresFile(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"import"})

	assert.Error(t, root.Execute())
}
