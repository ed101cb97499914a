package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// EffectTag coarsely classifies what an ability does, for bot heuristics
// and the debug explanation generator — never for rules enforcement.
type EffectTag string

const (
	EffectDamage      EffectTag = "damage"
	EffectDraw        EffectTag = "draw"
	EffectDestroy     EffectTag = "destroy"
	EffectCounterSpell EffectTag = "counter_target_spell"
	EffectPump        EffectTag = "pump"
	EffectGainLife    EffectTag = "gain_life"
	EffectTokenCreate EffectTag = "create_token"
	EffectUnknown     EffectTag = "unknown"
)

// AbilityHint is one best-effort signal extracted from a card's oracle
// text by Parse. Parse is pure and side-effect-free: a wrong or missed
// classification must never corrupt game state, only a bot's targeting or
// an explanation string (§9).
type AbilityHint struct {
	Keyword   string
	EffectTag EffectTag
	Amount    int
	Raw       string
}

var keywordAbilities = []string{
	"Flying", "Reach", "Trample", "Vigilance", "Haste", "Menace",
	"Deathtouch", "Lifelink", "First Strike", "Double Strike", "Hexproof", "Indestructible",
}

var (
	damageRe   = regexp.MustCompile(`deals? (\d+) damage`)
	drawRe     = regexp.MustCompile(`draws? (a|\d+) cards?`)
	gainLifeRe = regexp.MustCompile(`gains? (\d+) life`)
)

// Parse extracts every keyword and classifiable effect sentence from
// oracleText. It never errors; an unparseable sentence simply yields no
// hint.
func Parse(oracleText string) []AbilityHint {
	var hints []AbilityHint
	for _, kw := range keywordAbilities {
		if strings.Contains(oracleText, kw) {
			hints = append(hints, AbilityHint{Keyword: kw, EffectTag: EffectUnknown, Raw: kw})
		}
	}
	for _, sentence := range strings.Split(oracleText, ".") {
		tag, amount := classifySentence(sentence)
		if tag != EffectUnknown {
			hints = append(hints, AbilityHint{EffectTag: tag, Amount: amount, Raw: strings.TrimSpace(sentence)})
		}
	}
	return hints
}

// ClassifyEffect reports the coarse EffectTag of a single sentence.
func ClassifyEffect(text string) EffectTag {
	tag, _ := classifySentence(text)
	return tag
}

func classifySentence(sentence string) (EffectTag, int) {
	lower := strings.ToLower(sentence)
	if m := damageRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return EffectDamage, n
	}
	if m := drawRe.FindStringSubmatch(lower); m != nil {
		n := 1
		if v, err := strconv.Atoi(m[1]); err == nil {
			n = v
		}
		return EffectDraw, n
	}
	if m := gainLifeRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return EffectGainLife, n
	}
	if strings.Contains(lower, "destroy target") {
		return EffectDestroy, 0
	}
	if strings.Contains(lower, "counter target spell") {
		return EffectCounterSpell, 0
	}
	if strings.Contains(lower, "create a") && strings.Contains(lower, "token") {
		return EffectTokenCreate, 0
	}
	if strings.Contains(lower, "gets +") || strings.Contains(lower, "gets -") {
		return EffectPump, 0
	}
	return EffectUnknown, 0
}
