package server

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMethodColors_CoverServedMethods(t *testing.T) {
	require.ElementsMatch(t, []string{"GET", "POST", "DELETE", "OPTIONS"}, mapKeys(methodColors))
}

func mapKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
