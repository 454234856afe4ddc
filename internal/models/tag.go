package models

import "fmt"

// SearchTarget is the kind of object a search looks for.
type SearchTarget int

const (
	TargetWords SearchTarget = iota
	TargetKanji
	TargetSentences
	TargetNames
)

func (t SearchTarget) String() string {
	switch t {
	case TargetKanji:
		return "kanji"
	case TargetSentences:
		return "sentences"
	case TargetNames:
		return "names"
	default:
		return "words"
	}
}

// ParseSearchTarget parses the target names used by the HTTP API.
func ParseSearchTarget(s string) (SearchTarget, bool) {
	switch s {
	case "", "words", "word":
		return TargetWords, true
	case "kanji":
		return TargetKanji, true
	case "sentences", "sentence":
		return TargetSentences, true
	case "names", "name":
		return TargetNames, true
	}
	return TargetWords, false
}

// PartOfSpeech is a simplified part-of-speech class.
type PartOfSpeech string

const (
	PosNoun         PartOfSpeech = "noun"
	PosVerb         PartOfSpeech = "verb"
	PosAdjective    PartOfSpeech = "adjective"
	PosAdverb       PartOfSpeech = "adverb"
	PosAuxiliary    PartOfSpeech = "auxiliary"
	PosConjunction  PartOfSpeech = "conjunction"
	PosCounter      PartOfSpeech = "counter"
	PosExpression   PartOfSpeech = "expression"
	PosInterjection PartOfSpeech = "interjection"
	PosParticle     PartOfSpeech = "particle"
	PosPrefix       PartOfSpeech = "prefix"
	PosPronoun      PartOfSpeech = "pronoun"
	PosSuffix       PartOfSpeech = "suffix"
	PosUnclassified PartOfSpeech = "unclassified"
)

var posAliases = map[string]PartOfSpeech{
	"noun":         PosNoun,
	"verb":         PosVerb,
	"adjective":    PosAdjective,
	"adj":          PosAdjective,
	"adverb":       PosAdverb,
	"adv":          PosAdverb,
	"auxiliary":    PosAuxiliary,
	"aux":          PosAuxiliary,
	"conjunction":  PosConjunction,
	"conj":         PosConjunction,
	"counter":      PosCounter,
	"ctr":          PosCounter,
	"expression":   PosExpression,
	"expr":         PosExpression,
	"interjection": PosInterjection,
	"int":          PosInterjection,
	"particle":     PosParticle,
	"prt":          PosParticle,
	"prefix":       PosPrefix,
	"pref":         PosPrefix,
	"pronoun":      PosPronoun,
	"pn":           PosPronoun,
	"suffix":       PosSuffix,
	"suf":          PosSuffix,
	"unclassified": PosUnclassified,
}

// ParsePartOfSpeech resolves a lowercase keyword or abbreviation.
func ParsePartOfSpeech(s string) (PartOfSpeech, bool) {
	p, ok := posAliases[s]
	return p, ok
}

// Misc is a miscellaneous sense annotation.
type Misc string

const MiscAbbreviation Misc = "abbreviation"

// TagKind discriminates the Tag variants.
type TagKind int

const (
	TagHidden TagKind = iota
	TagIrregularIruEru
	TagJLPT
	TagGenkiLesson
	TagSearchType
	TagPartOfSpeech
	TagMisc
)

// Tag is a directive parsed from a "#token" in the query. Only the field
// matching Kind is meaningful.
type Tag struct {
	Kind   TagKind
	Level  int
	Target SearchTarget
	POS    PartOfSpeech
	Misc   Misc
}

func HiddenTag() Tag                     { return Tag{Kind: TagHidden} }
func IrregularIruEruTag() Tag            { return Tag{Kind: TagIrregularIruEru} }
func JLPTTag(level int) Tag              { return Tag{Kind: TagJLPT, Level: level} }
func GenkiLessonTag(lesson int) Tag      { return Tag{Kind: TagGenkiLesson, Level: lesson} }
func SearchTypeTag(t SearchTarget) Tag   { return Tag{Kind: TagSearchType, Target: t} }
func PartOfSpeechTag(p PartOfSpeech) Tag { return Tag{Kind: TagPartOfSpeech, POS: p} }
func MiscTag(m Misc) Tag                 { return Tag{Kind: TagMisc, Misc: m} }

func (t Tag) String() string {
	switch t.Kind {
	case TagHidden:
		return "hidden"
	case TagIrregularIruEru:
		return "irregular-ichidan"
	case TagJLPT:
		return fmt.Sprintf("n%d", t.Level)
	case TagGenkiLesson:
		return fmt.Sprintf("genki%d", t.Level)
	case TagSearchType:
		return t.Target.String()
	case TagPartOfSpeech:
		return string(t.POS)
	case TagMisc:
		return string(t.Misc)
	}
	return "unknown"
}
