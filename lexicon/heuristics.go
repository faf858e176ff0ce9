package lexicon

const (
	// BoosterIncrement is the additive valence shift of a booster word
	BoosterIncrement = 0.293
	// DamperIncrement is the additive valence shift of a damper word
	DamperIncrement = -0.293
)

// heuristics groups the modifier tables of one locale
type heuristics struct {
	negations    []string
	boosters     map[string]float64
	contrastives []string
}

var baselineHeuristics = heuristics{
	negations: []string{
		"aint", "arent", "cannot", "cant", "couldnt", "darent", "didnt", "doesnt",
		"dont", "hadnt", "hasnt", "havent", "isnt", "mightnt", "mustnt", "neither",
		"never", "no", "none", "nope", "nor", "not", "nothing", "nowhere",
		"oughtnt", "shant", "shouldnt", "wasnt", "werent", "without", "wont",
		"wouldnt", "rarely", "seldom", "despite",
	},
	boosters: map[string]float64{
		"absolutely": BoosterIncrement, "amazingly": BoosterIncrement, "awfully": BoosterIncrement,
		"completely": BoosterIncrement, "considerably": BoosterIncrement, "decidedly": BoosterIncrement,
		"deeply": BoosterIncrement, "enormously": BoosterIncrement, "entirely": BoosterIncrement,
		"especially": BoosterIncrement, "exceptionally": BoosterIncrement, "extremely": BoosterIncrement,
		"fully": BoosterIncrement, "greatly": BoosterIncrement, "highly": BoosterIncrement,
		"hugely": BoosterIncrement, "incredibly": BoosterIncrement, "intensely": BoosterIncrement,
		"more": BoosterIncrement, "most": BoosterIncrement, "particularly": BoosterIncrement,
		"purely": BoosterIncrement, "quite": BoosterIncrement, "really": BoosterIncrement,
		"remarkably": BoosterIncrement, "so": BoosterIncrement, "substantially": BoosterIncrement,
		"thoroughly": BoosterIncrement, "totally": BoosterIncrement, "tremendously": BoosterIncrement,
		"unbelievably": BoosterIncrement, "unusually": BoosterIncrement, "utterly": BoosterIncrement,
		"very": BoosterIncrement,

		"almost": DamperIncrement, "barely": DamperIncrement, "hardly": DamperIncrement,
		"kinda": DamperIncrement, "less": DamperIncrement, "little": DamperIncrement,
		"marginally": DamperIncrement, "occasionally": DamperIncrement, "partly": DamperIncrement,
		"scarcely": DamperIncrement, "slightly": DamperIncrement, "somewhat": DamperIncrement,
		"sorta": DamperIncrement,
	},
	contrastives: []string{"but"},
}

var localeHeuristics = map[string]heuristics{
	"nl": {
		negations: []string{"niet", "geen", "nooit", "niets", "niks", "nergens", "niemand", "zonder"},
		boosters: map[string]float64{
			"heel": BoosterIncrement, "erg": BoosterIncrement, "zeer": BoosterIncrement,
			"echt": BoosterIncrement, "enorm": BoosterIncrement, "ontzettend": BoosterIncrement,
			"hartstikke": BoosterIncrement, "extreem": BoosterIncrement, "totaal": BoosterIncrement,
			"nogal": DamperIncrement, "beetje": DamperIncrement, "enigszins": DamperIncrement,
			"redelijk": DamperIncrement, "amper": DamperIncrement, "nauwelijks": DamperIncrement,
		},
		contrastives: []string{"maar"},
	},
}
