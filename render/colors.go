package render

// Palette
var (
	RgbBackground  = RGB{R: 26, G: 27, B: 38}    // Tokyo Night background
	RgbPlayer      = RGB{R: 125, G: 207, B: 255} // Light cyan
	RgbPlayerFire  = RGB{R: 255, G: 255, B: 255} // Flash while Shooting
	RgbPlayerLoad  = RGB{R: 122, G: 162, B: 247} // Dimmer blue while Reloading
	RgbBarrel      = RGB{R: 192, G: 202, B: 245}
	RgbProjectile  = RGB{R: 255, G: 215, B: 0}   // Gold
	RgbEnemy       = RGB{R: 247, G: 118, B: 142} // Red-pink
	RgbEnemyEdge   = RGB{R: 180, G: 60, B: 80}
	RgbStatusText  = RGB{R: 0, G: 0, B: 0}       // Dark text for status
	RgbStatusBg    = RGB{R: 135, G: 206, B: 250} // Light sky blue
	RgbStatusOver  = RGB{R: 200, G: 50, B: 50}   // Red for game over
	RgbStatusPause = RGB{R: 255, G: 165, B: 0}   // Orange
	RgbOverlayText = RGB{R: 255, G: 255, B: 255}
)
