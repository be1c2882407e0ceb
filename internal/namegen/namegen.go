// internal/namegen/namegen.go

// Package namegen produces human-readable, non-unique lobby display names
// from a static adjective list.
package namegen

import (
	"crypto/rand"
	"math/big"
)

var adjectives = []string{
	"lean", "ethereal", "impolite", "chilly", "supreme", "materialistic",
	"daffy", "measly", "apathetic", "terrible", "screeching", "frequent",
	"fallacious", "wild", "rare", "infamous", "tidy", "tasty", "cooing",
	"entertaining", "milky", "huge", "unnatural", "woebegone", "marvelous",
	"kaput", "spotless", "peaceful", "fumbling", "dangerous", "waiting",
	"bawdy", "polite", "squeamish", "empty", "drunk", "damp", "wiry",
	"cloudy", "plastic", "valuable", "aggressive", "rotten", "hesitant",
	"hollow", "powerful", "truthful", "historical", "addicted", "thinkable",
	"debonair", "lowly", "outrageous", "lazy", "insidious", "wealthy",
	"mushy", "forgetful", "wry", "jazzy", "raspy", "meek", "tangible",
	"motionless", "bloody", "scintillating", "nutritious", "lackadaisical",
	"elastic", "rigid", "tremendous", "abrasive", "magnificent", "striped",
	"ruddy", "obnoxious", "careless", "robust", "foamy", "numerous",
	"receptive", "ubiquitous", "bustling", "puffy", "pointless", "flawless",
	"elated", "vacuous", "nippy", "hulking", "unaccountable", "kindly",
	"quizzical", "fretful", "disillusioned", "nifty", "fanatical",
	"frightening", "faithful", "lumpy", "venomous", "scattered", "direful",
	"recondite", "spurious", "ruthless", "halting", "gratis", "skillful",
	"momentous", "verdant", "flowery", "aloof", "inquisitive", "abaft",
	"devilish", "grandiose", "offbeat", "yielding", "splendid", "courageous",
	"abject", "gullible", "whimsical", "noxious", "vengeful", "gruesome",
	"therapeutic", "aberrant", "uptight", "enchanting", "mellow",
	"belligerent", "observant", "acrid", "maddening", "furtive", "psychedelic",
	"abiding", "sordid", "barbarous", "icky", "lamentable", "heady", "ratty",
	"quarrelsome", "omniscient", "adamant", "puny", "wholesale", "capricious",
	"sulky", "hysterical", "roasted", "defiant", "superficial", "tightfisted",
	"judicious", "calculating", "righteous", "resolute", "squealing", "godly",
	"undesirable", "illustrious", "exultant", "glib", "mountainous",
	"unbiased", "deadpan", "dysfunctional", "guttural", "wrathful", "knotty",
	"earsplitting", "noiseless", "unkempt", "tacit", "nebulous", "literate",
	"whispering", "panicky", "highfalutin", "taboo", "waggish", "oceanic",
	"berserk", "axiomatic", "didactic", "clammy", "soggy", "impartial",
	"parsimonious", "numberless", "macabre", "gusty", "lavish", "evasive",
	"zippy", "overwrought", "hospitable", "gaudy", "sweltering", "gleaming",
	"quixotic", "permissible", "truculent", "obscene", "erratic", "mammoth",
	"misty", "nutty", "bashful", "unwritten", "efficacious", "wakeful",
	"piquant", "hellish", "cumbersome", "stereotyped", "jobless", "tacky",
	"hapless", "cagey", "panoramic", "unadvised", "slimy", "somber",
	"breakable", "brash", "ludicrous", "sedate", "prickly", "vivacious",
	"seemly", "moaning", "spiteful", "versed", "flashy", "diligent", "quirky",
	"rightful", "finicky", "spiky", "unbecoming", "succinct", "jumbled",
	"overconfident", "reflective", "grotesque", "neighborly", "billowy",
	"penitent", "obsequious", "smoggy", "boorish", "hallowed", "giddy",
	"domineering", "zonked", "childlike", "breezy", "trashy", "makeshift",
	"divergent", "loutish", "lyrical", "onerous", "toothsome", "alluring",
	"purring", "grouchy", "aquatic", "elfin", "decorous", "draconian", "ajar",
	"zesty", "befitting", "spotted", "lethal", "oafish", "equable", "stingy",
	"zany", "abusive", "eminent", "tangy", "towering", "shaggy", "abundant",
	"nondescript", "combative", "rustic", "pastoral", "amuck", "savory",
	"bouncy", "labored", "ragged", "shivering", "pumped", "unequaled",
	"abhorrent", "trite", "eatable", "placid", "plausible", "flagrant",
	"demonic", "lewd", "deafening", "spooky", "phobic", "rhetorical",
	"grieving", "guiltless", "ablaze", "aromatic", "endurable", "obtainable",
	"nimble", "repulsive", "humdrum", "ritzy", "woozy", "sable", "utopian",
	"condemned", "colossal", "unwieldy", "heartbreaking", "cynical", "macho",
	"kindhearted", "chivalrous", "flaky", "paltry", "spotty", "limping",
	"rabid", "synonymous", "dazzling", "adjoining", "feigned", "inconclusive",
	"tenuous", "acoustic", "sassy", "bewildered", "scandalous", "lopsided",
	"heavenly", "aboriginal", "possessive", "snobbish", "exuberant", "jagged",
	"magenta", "goofy", "flippant", "nosy", "incandescent", "boundless",
	"unruly", "auspicious", "wiggly", "rampant", "delirious", "disastrous",
	"wistful", "holistic", "acidic", "curvy", "mindless", "abashed",
	"periodic", "simplistic", "futuristic", "swanky", "gabby", "abounding",
	"instinctive", "wretched", "luxuriant", "shrill", "earthy", "uppity",
	"statuesque", "parched", "miscreant", "ossified", "abstracted", "dashing",
	"gainful", "moldy", "snotty", "flimsy", "jaded", "laughable", "hushed",
	"vagabond", "tearful", "maniacal", "agonizing", "nauseating", "aspiring",
	"painstaking", "handsomely", "unsightly", "deranged", "hypnotic",
	"homely", "crabby", "hissing", "hurried", "cloistered", "fluttering",
	"squalid", "overjoyed", "gamy", "merciful", "dispensable", "glamorous",
	"plucky", "murky", "evanescent", "jittery", "garrulous", "torpid",
	"rambunctious", "reminiscent", "thundering", "voiceless", "gaping",
	"ceaseless", "cuddly", "volatile", "husky", "pushy", "spiffy", "zealous",
	"womanly", "envious", "wasteful", "melodic", "drab", "poised",
	"obeisant", "picayune", "profuse", "invincible", "perpetual",
	"stupendous", "craven", "brawny", "ugliest", "tranquil", "secretive",
	"glistening", "languid", "symptomatic", "resonant", "cluttered",
	"habitual", "scrawny", "industrious", "decisive", "likeable", "tawdry",
	"evasive", "sneaky", "cautious", "workable", "animated", "untidy",
	"pricey", "testy",
}

// Generator builds display names as prefix + adjective + suffix.
type Generator struct {
	prefix string
	suffix string
}

// New returns a Generator with the given affixes. Either may be empty.
func New(prefix, suffix string) *Generator {
	return &Generator{prefix: prefix, suffix: suffix}
}

// Name returns a freshly drawn display name. Names are not unique; the lobby
// ID is the identifier, the name is just for humans.
func (g *Generator) Name() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(adjectives))))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken;
		// fall back to a fixed word rather than propagating an error
		// into a cosmetic code path.
		return g.prefix + "nameless" + g.suffix
	}
	return g.prefix + adjectives[n.Int64()] + g.suffix
}
