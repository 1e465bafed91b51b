package analytics

// defaultStopWords is the built-in set of high-frequency English words
// excluded from frequency analysis. Callers can replace or extend it through
// tokenizer options.
var defaultStopWords = map[string]struct{}{
	"a": {}, "absolutely": {}, "actually": {}, "again": {}, "all": {},
	"almost": {}, "already": {}, "also": {}, "always": {}, "am": {},
	"an": {}, "and": {}, "another": {}, "any": {}, "are": {}, "as": {},
	"at": {},

	"bad": {}, "basically": {}, "be": {}, "been": {}, "being": {},
	"big": {}, "but": {}, "by": {},

	"can": {}, "certainly": {}, "completely": {}, "could": {},

	"definitely": {}, "did": {}, "different": {}, "do": {}, "does": {},
	"down": {},

	"each": {}, "enough": {}, "entirely": {}, "especially": {},
	"essentially": {}, "even": {}, "every": {}, "exactly": {},

	"fairly": {}, "few": {}, "first": {}, "for": {}, "from": {},

	"generally": {}, "good": {},

	"had": {}, "has": {}, "have": {}, "having": {}, "he": {}, "her": {},
	"here": {}, "high": {}, "him": {}, "his": {}, "how": {},

	"i": {}, "in": {}, "is": {}, "it": {}, "its": {},

	"just": {},

	"largely": {}, "last": {}, "left": {}, "less": {}, "long": {},
	"low": {},

	"mainly": {}, "many": {}, "may": {}, "maybe": {}, "me": {},
	"might": {}, "more": {}, "most": {}, "mostly": {}, "much": {},
	"must": {}, "my": {},

	"never": {}, "new": {}, "no": {}, "none": {}, "not": {}, "now": {},

	"of": {}, "often": {}, "old": {}, "on": {}, "once": {}, "one": {},
	"only": {}, "or": {}, "other": {}, "our": {},

	"partly": {}, "particularly": {}, "perhaps": {}, "pretty": {},
	"probably": {},

	"quite": {},

	"rather": {}, "really": {}, "right": {},

	"same": {}, "shall": {}, "short": {}, "should": {}, "slightly": {},
	"small": {}, "so": {}, "some": {}, "sometimes": {}, "somewhat": {},
	"specifically": {}, "still": {}, "such": {},

	"than": {}, "that": {}, "the": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "to": {}, "today": {}, "tomorrow": {}, "too": {},
	"totally": {}, "twice": {}, "two": {},

	"up": {}, "us": {}, "usually": {},

	"very": {},

	"was": {}, "we": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "who": {}, "why": {}, "will": {},
	"with": {}, "would": {},

	"yesterday": {}, "yet": {}, "you": {}, "your": {},
}
