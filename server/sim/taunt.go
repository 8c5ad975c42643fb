package sim

// Lines drivers shout at the player, keyed by situation.
var driverPhrases = map[string][]string{
	"taunt": {
		"That's MY spot!",
		"Nice parking, grandpa!",
		"Learn to signal!",
		"I was here first!",
		"Beep beep, loser!",
		"Ever heard of a mirror?",
	},
	"defeated": {
		"My paint job!",
		"I'm calling my insurance...",
		"Fine, take the spot!",
		"Not the bumper!",
	},
}

func pickPhrase(pool string, rng Rand) string {
	phrases := driverPhrases[pool]
	if len(phrases) == 0 {
		return ""
	}
	i := int(rng.Float64() * float64(len(phrases)))
	if i >= len(phrases) {
		i = len(phrases) - 1
	}
	return phrases[i]
}

func tauntDelay(rng Rand) float64 {
	return TauntMin + rng.Float64()*(TauntMax-TauntMin)
}
