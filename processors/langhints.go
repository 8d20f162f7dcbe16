package processors

import (
	"fmt"
	"strings"

	"mediainsight/core"
)

// hintThreshold is the minimum keyword score before a language hint fires.
const hintThreshold = 2

// languageHints maps a language code to keywords associated with that
// language or region: proper nouns, common function words, and genre terms.
// The table is immutable; validateTables checks it at startup.
var languageHints = map[string][]string{
	"hi": {"kumar sanu", "bollywood", "naaraaz", "hindi", "sambhala", "mere", "hai", "tum", "dil", "pyaar",
		"asha bhosle", "lata", "arijit", "yeh", "tera", "sapna", "sapne", "zindagi", "mohabbat", "ishq", "shayari",
		"hero", "villain", "gaana", "film", "kahani", "ranbir", "deepika"},
	"ta": {"kollywood", "tamil", "rajini", "vijay", "amma", "enna", "yen", "illa", "thalaiva", "padam",
		"sivakarthikeyan", "vijay sethupathi", "ajith", "kamal", "nayanthara", "thambi", "satham", "kadhal",
		"vettai", "vannakam", "ponniyin", "selvan", "mass", "basha", "veeram"},
	"te": {"tollywood", "telugu", "allu", "mahesh", "raasi", "nuvvu", "vaddu", "padam", "chiranjeevi", "pawan",
		"pushpa", "icon star", "srivalli", "kotha", "bava", "ammo", "veera", "nenu", "evaru", "chitti",
		"adavi", "mass", "megastar"},
	"bn": {"bengali", "kolkata", "bangla", "rabindra", "ami", "tumi", "koro", "kotha", "chele", "meyera",
		"song", "gaaner", "sokal", "ratri", "shonar", "bijoy", "pran", "anondo", "bhalobasha",
		"bhai", "rong", "misti", "rosogolla"},
	"ml": {"malayalam", "kerala", "mohanlal", "fahadh", "ente", "njan", "alle", "oru", "vannu", "chila",
		"manasil", "amma", "kutty", "mammootty", "nivin", "dileep", "kalyaanam", "pookal", "thaniye", "soorya",
		"thattathin", "marayathe", "kanne"},
}

// detectLanguageHint scores every candidate language by counting keyword
// occurrences in title+transcript and returns the best candidate when its
// score reaches the threshold, otherwise "".
func detectLanguageHint(title, transcript string) string {
	text := strings.ToLower(title + " " + transcript)

	best := ""
	bestScore := 0
	for lang, hints := range languageHints {
		score := 0
		for _, word := range hints {
			if strings.Contains(text, word) {
				score++
			}
		}
		if score > bestScore || (score == bestScore && best != "" && lang < best) {
			best = lang
			bestScore = score
		}
	}

	if bestScore >= hintThreshold {
		return best
	}
	return ""
}

// validateTables checks the immutable lookup tables once at startup so a bad
// edit fails fast instead of at call time.
func validateTables() error {
	for lang, hints := range languageHints {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("language hints: empty language code")
		}
		if len(hints) == 0 {
			return fmt.Errorf("language hints: no keywords for %q", lang)
		}
		for _, w := range hints {
			if w != strings.ToLower(w) {
				return fmt.Errorf("language hints: keyword %q for %q is not lowercase", w, lang)
			}
		}
	}
	for _, cat := range core.Categories() {
		if cat == core.CategoryOther {
			continue
		}
		if _, ok := taskPrompts[cat]; !ok {
			return fmt.Errorf("task prompts: missing instruction for category %q", cat)
		}
	}
	return nil
}
