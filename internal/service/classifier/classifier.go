// Package classifier assigns financial transactions to cost buckets.
package classifier

import (
	"strings"

	"github.com/mamadbah2/farmcost/internal/domain/models"
	"github.com/mamadbah2/farmcost/internal/textmatch"
)

// Outcome tells why a transaction did or did not get a bucket.
type Outcome string

const (
	OutcomeClassified   Outcome = "classified"
	OutcomeUnclassified Outcome = "unclassified"
	OutcomeParseError   Outcome = "parse_error"
)

// Result is the classification of one transaction.
type Result struct {
	Bucket  models.CostBucket
	Outcome Outcome
	// MatchedBy is the category or keyword that decided the bucket.
	MatchedBy string
}

// OK reports whether the transaction was assigned a bucket.
func (r Result) OK() bool {
	return r.Outcome == OutcomeClassified
}

type compiledRule struct {
	bucket     models.CostBucket
	categories []string
	keywords   []string
}

// Classifier applies an immutable rule table.
type Classifier struct {
	rules []compiledRule
}

// New compiles rules into a classifier.
func New(rules Rules) (*Classifier, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	c := &Classifier{rules: make([]compiledRule, 0, len(rules.Buckets))}
	for _, r := range rules.Buckets {
		cr := compiledRule{bucket: r.Bucket}
		for _, cat := range r.Categories {
			if cat = strings.TrimSpace(cat); cat != "" {
				cr.categories = append(cr.categories, cat)
			}
		}
		for _, kw := range r.Keywords {
			if kw = textmatch.Normalize(kw); kw != "" {
				cr.keywords = append(cr.keywords, kw)
			}
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

// Classify matches the category first and the description keywords second.
func (c *Classifier) Classify(tx models.FinancialTransaction) Result {
	if tx.Malformed {
		return Result{Outcome: OutcomeParseError}
	}

	category := strings.TrimSpace(tx.Category)
	if category != "" {
		for _, r := range c.rules {
			for _, cat := range r.categories {
				if strings.EqualFold(cat, category) {
					return Result{Bucket: r.bucket, Outcome: OutcomeClassified, MatchedBy: cat}
				}
			}
		}
	}

	description := textmatch.Normalize(tx.Description)
	if description != "" {
		for _, r := range c.rules {
			for _, kw := range r.keywords {
				if strings.Contains(description, kw) {
					return Result{Bucket: r.bucket, Outcome: OutcomeClassified, MatchedBy: kw}
				}
			}
		}
	}

	return Result{Outcome: OutcomeUnclassified}
}
