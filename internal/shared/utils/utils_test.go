package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-devlog/internal/shared/utils"
)

func TestSplitTags(t *testing.T) {
	require.Equal(t, []string{"Go", "chi", "Postgres"}, utils.SplitTags("Go, chi ,,Postgres"))
	require.Equal(t, []string{}, utils.SplitTags(""))
	require.Equal(t, []string{}, utils.SplitTags(" , "))
}

func TestCleanTags_NeverNil(t *testing.T) {
	out := utils.CleanTags(nil)
	require.NotNil(t, out)
	require.Empty(t, out)
}
