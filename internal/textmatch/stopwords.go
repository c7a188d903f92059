package textmatch

// stopwords lists words that carry no concept on their own. Only entries
// longer than MinTokenLength can ever be consulted, but short ones are kept
// so the table reads as a complete vocabulary.
var stopwords = map[string]struct{}{
	// articles and determiners
	"a": {}, "an": {}, "the": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"some": {}, "any": {}, "each": {}, "every": {}, "all": {}, "both": {}, "either": {},
	"neither": {}, "such": {}, "other": {}, "another": {},

	// prepositions
	"about": {}, "above": {}, "across": {}, "after": {}, "against": {}, "along": {},
	"among": {}, "around": {}, "at": {}, "before": {}, "behind": {}, "below": {},
	"beneath": {}, "beside": {}, "between": {}, "beyond": {}, "by": {}, "down": {},
	"during": {}, "except": {}, "for": {}, "from": {}, "in": {}, "inside": {},
	"into": {}, "like": {}, "near": {}, "of": {}, "off": {}, "on": {}, "onto": {},
	"out": {}, "outside": {}, "over": {}, "since": {}, "through": {}, "throughout": {},
	"till": {}, "to": {}, "toward": {}, "towards": {}, "under": {}, "until": {},
	"up": {}, "upon": {}, "via": {}, "with": {}, "within": {}, "without": {},

	// pronouns
	"i": {}, "me": {}, "my": {}, "mine": {}, "myself": {}, "we": {}, "us": {},
	"our": {}, "ours": {}, "ourselves": {}, "you": {}, "your": {}, "yours": {},
	"yourself": {}, "yourselves": {}, "he": {}, "him": {}, "his": {}, "himself": {},
	"she": {}, "her": {}, "hers": {}, "herself": {}, "it": {}, "its": {}, "itself": {},
	"they": {}, "them": {}, "their": {}, "theirs": {}, "themselves": {},
	"someone": {}, "something": {}, "anyone": {}, "anything": {}, "everyone": {},
	"everything": {}, "nothing": {}, "one": {},

	// conjunctions
	"and": {}, "or": {}, "but": {}, "nor": {}, "so": {}, "yet": {}, "because": {},
	"although": {}, "though": {}, "while": {}, "whereas": {}, "unless": {},
	"if": {}, "then": {}, "than": {}, "whether": {}, "also": {},

	// auxiliary and modal verbs
	"am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "having": {}, "do": {},
	"does": {}, "did": {}, "doing": {}, "can": {}, "could": {}, "shall": {},
	"should": {}, "will": {}, "would": {}, "may": {}, "might": {}, "must": {},
	"ought": {},

	// common adverbs
	"very": {}, "really": {}, "just": {}, "only": {}, "too": {}, "quite": {},
	"rather": {}, "much": {}, "more": {}, "most": {}, "less": {}, "least": {},
	"always": {}, "never": {}, "often": {}, "sometimes": {}, "usually": {},
	"here": {}, "there": {}, "now": {}, "not": {}, "again": {}, "already": {},
	"still": {}, "even": {}, "well": {}, "basically": {}, "actually": {},
	"simply": {}, "generally": {},

	// question words
	"what": {}, "which": {}, "who": {}, "whom": {}, "whose": {}, "when": {},
	"where": {}, "why": {}, "how": {},

	// generic filler verbs
	"get": {}, "gets": {}, "got": {}, "make": {}, "makes": {}, "made": {},
	"thing": {}, "things": {}, "stuff": {}, "etc": {}, "way": {}, "ways": {},
	"used": {}, "uses": {}, "using": {},
}

// IsStopword reports whether w (already lowercased) is in the stopword table.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}
