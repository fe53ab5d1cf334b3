package common

import "github.com/diamondburned/arikawa/v3/discord"

// Embed colours
const (
	ColourBlue discord.Color = 0x3498db
	ColourRed  discord.Color = 0xe74c3c
)
