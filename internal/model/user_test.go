package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildUserIndex(t *testing.T) {
	users := []User{
		{SteamID: "A", Name: "Alice", Avatar: "a.jpg", Credit: 100, TradeURL: "private"},
		{SteamID: "B", Name: "Bob", Avatar: "b.jpg"},
	}

	index := BuildUserIndex(users)

	assert.Len(t, index, 2)
	assert.Equal(t, PublicIdentity{SteamID: "A", Name: "Alice", Avatar: "a.jpg"}, index["A"])
	assert.Equal(t, PublicIdentity{SteamID: "B", Name: "Bob", Avatar: "b.jpg"}, index["B"])
}

func TestBuildUserIndex_Empty(t *testing.T) {
	assert.Empty(t, BuildUserIndex(nil))
	assert.Empty(t, BuildUserIndex([]User{}))
}

func TestBuildUserIndex_LastDuplicateWins(t *testing.T) {
	users := []User{
		{SteamID: "A", Name: "Old"},
		{SteamID: "A", Name: "New"},
	}

	index := BuildUserIndex(users)
	assert.Len(t, index, 1)
	assert.Equal(t, "New", index["A"].Name)
}
