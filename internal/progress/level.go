package progress

// LevelForXP maps an XP total to its level. Levels start at 1 and every
// XPPerLevel points adds one.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// XPIntoLevel is how far xp sits inside its current level band.
func XPIntoLevel(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp % XPPerLevel
}

// XPToNextLevel is how many points remain until the next level.
func XPToNextLevel(xp int) int {
	return XPPerLevel - XPIntoLevel(xp)
}
