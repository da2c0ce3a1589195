package engine

// NewTestWorld creates a Running world with a player at the center
// Test helper shared by system and game tests
func NewTestWorld(width, height, playerRadius float64) *World {
	w := NewWorld(Bounds{Width: width, Height: height})
	w.Reset(w.Bounds, playerRadius)
	w.SetState(StateRunning)
	return w
}
