package windowmanager_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
)

func TestIntentResolve(t *testing.T) {
	tests := []struct {
		name   string
		intent windowmanager.Intent
		want   constants.Placement
	}{
		{"default", windowmanager.Intent{}, constants.PlacementTopLevel},
		{"top window", windowmanager.Intent{TopWindow: true}, constants.PlacementTopLevel},
		{"nav group", windowmanager.Intent{NavGroup: true}, constants.PlacementStacked},
		{"new nav group", windowmanager.Intent{NewNavGroup: true}, constants.PlacementStacked},
		{"modal", windowmanager.Intent{ModalWin: true}, constants.PlacementModal},
		{"modal beats nav group", windowmanager.Intent{ModalWin: true, NavGroup: true}, constants.PlacementModal},
		{"side menu beats modal", windowmanager.Intent{ShowSideMenu: true, ModalWin: true}, constants.PlacementDrawerHosted},
		{"nav group beats tab", windowmanager.Intent{NavGroup: true, TabGroup: true}, constants.PlacementStacked},
		{"tab group", windowmanager.Intent{TabGroup: true}, constants.PlacementTabHosted},
		{"explicit", windowmanager.Place(constants.PlacementModal), constants.PlacementModal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.intent.Resolve()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntentResolveInvalid(t *testing.T) {
	_, err := windowmanager.Intent{CreateStack: "a", AddToStack: "b"}.Resolve()
	assert.ErrorIs(t, err, windowmanager.ErrInvalidPlacementIntent)

	_, err = windowmanager.Place(constants.Placement(42)).Resolve()
	assert.ErrorIs(t, err, windowmanager.ErrInvalidPlacementIntent)
}

func TestIntentStackName(t *testing.T) {
	assert.Equal(t, "main", windowmanager.Intent{CreateStack: "main"}.StackName())
	assert.Equal(t, "main", windowmanager.Intent{NavGroup: true}.InStack("main").StackName())
	assert.Empty(t, windowmanager.Intent{}.StackName())
}
