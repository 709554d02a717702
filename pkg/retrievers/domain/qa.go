package domain

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"mercator-hq/ganymede/pkg/retrievers"
)

// Default parameters for the qa adapter.
const (
	DefaultQuestionField       = "question"
	DefaultAnswerField         = "answer"
	DefaultConfidenceThreshold = 0.3
	DefaultMaxResults          = 5
)

// QAAdapter formats question/answer records.
//
// Raw records are JSON objects; the question and answer are read from the
// configured fields. Records that are not JSON are used verbatim as the answer.
type QAAdapter struct {
	questionField string
	answerField   string
	threshold     float64
	maxResults    int
}

// NewQAAdapter creates a qa adapter. Recognized params: question_field,
// answer_field, confidence_threshold, max_results.
func NewQAAdapter(params map[string]any) (retrievers.DomainAdapter, error) {
	a := &QAAdapter{}
	var err error

	if a.questionField, err = retrievers.StringParam(params, "question_field", DefaultQuestionField); err != nil {
		return nil, err
	}
	if a.answerField, err = retrievers.StringParam(params, "answer_field", DefaultAnswerField); err != nil {
		return nil, err
	}
	if a.threshold, err = retrievers.FloatParam(params, "confidence_threshold", DefaultConfidenceThreshold); err != nil {
		return nil, err
	}
	if a.threshold < 0 || a.threshold > 1 {
		return nil, &retrievers.ParamError{Param: "confidence_threshold", Message: "must be between 0 and 1"}
	}
	if a.maxResults, err = retrievers.IntParam(params, "max_results", DefaultMaxResults); err != nil {
		return nil, err
	}
	if a.maxResults < 1 {
		return nil, &retrievers.ParamError{Param: "max_results", Message: "must be positive"}
	}
	return a, nil
}

// Name returns "qa".
func (a *QAAdapter) Name() string { return "qa" }

// FormatDocument implements retrievers.DomainAdapter.
func (a *QAAdapter) FormatDocument(raw string, meta map[string]any) retrievers.Document {
	doc := newDocument(meta)

	question, answer := "", raw
	if gjson.Valid(raw) {
		parsed := gjson.Parse(raw)
		question = parsed.Get(a.questionField).String()
		answer = parsed.Get(a.answerField).String()
	}

	doc.Metadata["question"] = question
	doc.Metadata["answer"] = answer
	if question == "" {
		doc.Content = answer
	} else {
		doc.Content = fmt.Sprintf("Question: %s\nAnswer: %s", question, answer)
	}
	return doc
}

// Filter drops documents scoring below the confidence threshold, orders the
// rest by score and caps them at max_results.
func (a *QAAdapter) Filter(_ string, docs []retrievers.Document) []retrievers.Document {
	kept := make([]retrievers.Document, 0, len(docs))
	for _, d := range docs {
		if d.Score >= a.threshold {
			kept = append(kept, d)
		}
	}
	return rank(kept, a.maxResults)
}

func newDocument(meta map[string]any) retrievers.Document {
	doc := retrievers.Document{Metadata: make(map[string]any, len(meta)+2)}
	for k, v := range meta {
		doc.Metadata[k] = v
	}
	if id, ok := meta["id"]; ok {
		doc.ID = fmt.Sprint(id)
	}
	if score, ok := meta["score"].(float64); ok {
		doc.Score = score
	}
	return doc
}

func rank(docs []retrievers.Document, limit int) []retrievers.Document {
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs
}
