package classify

// DefaultIncludeKeywords seeds candidacy matching whenever the keyword store
// holds no include keywords of its own. User-defined include keywords replace
// this list entirely; they are never merged.
var DefaultIncludeKeywords = []string{
	"할일", "제출", "제출기한", "마감", "기한", "검토", "확인", "필수",
	"요청", "요구", "청구", "협조", "회신", "답장", "작성", "기재",
	"과제", "숙제", "deadline", "due", "todo", "assignment", "report", "언제까지",
}

// actionKeywords are verbs that ask the reader to do something.
var actionKeywords = []string{
	"요청", "요구", "청구", "협조", "제출", "회신", "답장", "작성", "기재",
}

// newsKeywords flag informational content that merely reports dates
// rather than imposing an obligation.
var newsKeywords = []string{
	"뉴스", "속보", "보도자료", "기사", "헤드라인", "이슈", "보도", "단신", "신문",
}
