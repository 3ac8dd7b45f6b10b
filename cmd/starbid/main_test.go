package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bloxapp/starbid/pkg/rewards"
)

func TestLoadRules_BuiltIn(t *testing.T) {
	rules, err := loadRules(Globals{})
	require.NoError(t, err)
	require.Equal(t, rewards.DefaultRules, *rules)
}

func TestLoadRules_File(t *testing.T) {
	rules, err := loadRules(Globals{Rules: filepath.Join("..", "..", "rules.yaml")})
	require.NoError(t, err)
	require.Equal(t, rewards.DefaultRules, *rules)
}

func TestLoadRules_MinimumBidOverride(t *testing.T) {
	rules, err := loadRules(Globals{MinimumBid: 500})
	require.NoError(t, err)
	require.Equal(t, rewards.DashboardRules, *rules)
	require.Equal(t, 100.0, rewards.DefaultRules.MinimumBid)
}

func TestLoadRules_Invalid(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(fileName, []byte("max_total_pool: 1\nstar_multiplier: 1\n"), 0644))
	_, err := loadRules(Globals{Rules: fileName})
	require.ErrorContains(t, err, "missing tiers")

	_, err = loadRules(Globals{Rules: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestZeroReason(t *testing.T) {
	rules := rewards.DefaultRules
	require.Contains(t, zeroReason(&rules, 99, 99), "minimum bid")
	require.Equal(t, "total pool is empty", zeroReason(&rules, 100, 0))
	require.Contains(t, zeroReason(&rules, 100, 22050), "exceeds 22000")
}
