package dialogue

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wicaksana/tanya/errors"
	"github.com/wicaksana/tanya/kb"
	"github.com/wicaksana/tanya/logger"
	"github.com/wicaksana/tanya/match"
	"github.com/wicaksana/tanya/session"
)

// contextThreshold is the relaxed acceptance bound for context-scoped
// matching, independent of the knowledge-base default.
const contextThreshold = 0.5

// intentUnknown labels utterances no intent keyword comes close to.
const intentUnknown = "unknown"

const maxSuggestions = 3

// defaultFallbackTimeout bounds the external fallback call when the process
// config provides no budget.
const defaultFallbackTimeout = 5 * time.Second

// Options tunes an Engine beyond what the knowledge base itself carries.
type Options struct {
	// Matcher overrides the default Levenshtein matcher.
	Matcher match.Matcher
	// Recorder receives resolved turns; nil disables transcripts.
	Recorder Recorder
	// FallbackTimeout bounds the external fallback call.
	FallbackTimeout time.Duration
}

// Engine resolves one utterance per call against an immutable knowledge base,
// holding the session's lock for the duration of the turn.
type Engine struct {
	base     *kb.KnowledgeBase
	matcher  match.Matcher
	detector *match.Detector
	sessions *session.Manager
	api      *APIFallback
	recorder Recorder
	log      *zap.SugaredLogger
}

// NewEngine wires a resolution engine over the given knowledge base and
// session store.
func NewEngine(base *kb.KnowledgeBase, sessions *session.Manager, opts Options) *Engine {
	matcher := opts.Matcher
	if matcher == nil {
		matcher = match.NewLevenshteinMatcher()
	}

	e := &Engine{
		base:     base,
		matcher:  matcher,
		detector: match.NewDetector(base.Settings.DefaultLanguage, base.Languages(), base.Settings.AutoDetectLanguage),
		sessions: sessions,
		recorder: opts.Recorder,
		log:      logger.Named("dialogue"),
	}
	if base.Settings.APIFallbackURL != "" {
		timeout := opts.FallbackTimeout
		if timeout <= 0 {
			timeout = defaultFallbackTimeout
		}
		e.api = NewAPIFallback(base.Settings.APIFallbackURL, timeout)
	}
	return e
}

// Resolve runs the full pipeline for one turn. Input validation happens
// before any session is created, so a rejected request leaves no trace.
func (e *Engine) Resolve(ctx context.Context, sessionID, utterance string) (*Result, error) {
	sessionID = strings.TrimSpace(sessionID)
	utterance = strings.TrimSpace(utterance)
	if sessionID == "" {
		return nil, errors.NewInvalidRequestError("session_id is required")
	}
	if utterance == "" {
		return nil, errors.NewInvalidRequestError("utterance is required")
	}

	lang := e.detector.Detect(utterance)
	tokens := e.base.Tokenizer.Tokenize(utterance)
	entities := recognizeEntities(tokens, e.base.Entities)

	sess := e.sessions.GetOrCreate(sessionID)
	sess.Lock()
	defer sess.Unlock()

	res := e.tryContext(sess, utterance, entities)
	if res == nil {
		res = e.tryGeneral(sess, utterance, tokens, lang, entities)
	}
	if res == nil {
		res = e.fallback(ctx, sess, utterance, lang, entities)
	}

	res.Language = lang
	if len(entities) > 0 {
		res.Entities = entities
	}

	sess.Append(session.Turn{
		Utterance: utterance,
		Answer:    res.Answer,
		Source:    res.Source,
		Language:  lang,
		Intent:    res.Intent,
		Timestamp: time.Now(),
	})
	e.record(ctx, sessionID, utterance, res)

	return res, nil
}

// tryContext restricts matching to the session's active sub-dialogue under
// the relaxed threshold, bypassing intent classification. A stale context id
// behaves as no active context.
func (e *Engine) tryContext(sess *session.Session, utterance string, entities map[string]string) *Result {
	active := sess.Context()
	if active == "" {
		return nil
	}
	c, ok := e.base.Context(active)
	if !ok {
		sess.SetContext("")
		return nil
	}

	cands := make([]match.Candidate, 0, len(c.Items))
	for _, it := range c.Items {
		cands = append(cands, match.Candidate{Key: it.ID, Texts: it.Questions})
	}
	ranked := e.matcher.Rank(utterance, cands)
	if len(ranked) == 0 || ranked[0].Score >= contextThreshold {
		return nil
	}

	item, _ := e.base.Item(ranked[0].Key)
	score := ranked[0].Score
	sess.SetContext(item.Next)
	return &Result{
		Answer:  personalize(selectAnswer(item.Answers), entities),
		Intent:  item.Intent,
		Score:   &score,
		Source:  SourceContext,
		Context: contextRef(item.Next),
	}
}

// tryGeneral ranks the per-language candidates, prefers those agreeing with
// the detected intent, and accepts only strictly under the effective
// threshold.
func (e *Engine) tryGeneral(sess *session.Session, utterance string, tokens []string, lang string, entities map[string]string) *Result {
	items := e.base.Candidates(lang)
	if len(items) == 0 {
		return nil
	}
	cands := make([]match.Candidate, 0, len(items))
	for _, it := range items {
		cands = append(cands, match.Candidate{Key: it.ID, Texts: it.Questions})
	}
	ranked := e.matcher.Rank(utterance, cands)
	if len(ranked) == 0 {
		return nil
	}

	intent := e.detectIntent(tokens)

	type scored struct {
		item *kb.QAItem
		raw  float64
	}
	var filtered []scored
	for _, r := range ranked {
		if it, ok := e.base.Item(r.Key); ok && it.Intent == intent {
			filtered = append(filtered, scored{item: it, raw: r.Score})
		}
	}

	var best scored
	if len(filtered) > 0 {
		// Dividing by weight biases toward heavier items at comparable
		// raw scores; lower is better throughout.
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].raw/filtered[i].item.Weight < filtered[j].raw/filtered[j].item.Weight
		})
		best = filtered[0]
	} else {
		// Intent agreement is a soft preference, never a hard filter.
		it, _ := e.base.Item(ranked[0].Key)
		best = scored{item: it, raw: ranked[0].Score}
	}

	if best.raw >= best.item.EffectiveThreshold(e.base.Settings.DefaultThreshold) {
		return nil
	}

	score := best.raw
	sess.SetContext(best.item.Next)
	return &Result{
		Answer:  personalize(selectAnswer(best.item.Answers), entities),
		Intent:  intent,
		Score:   &score,
		Source:  SourceQA,
		Context: contextRef(best.item.Next),
	}
}

// detectIntent takes the intent whose keyword comes closest to any token.
func (e *Engine) detectIntent(tokens []string) string {
	name := intentUnknown
	best := 1.0
	for _, in := range e.base.Intents {
		for _, kw := range in.Keywords {
			for _, tok := range tokens {
				if d := match.Distance(tok, kw); d < best {
					best = d
					name = in.Name
				}
			}
		}
	}
	return name
}

// fallback walks the fixed chain: external API, static per-language item,
// then the guaranteed terminal answer. Every tier clears the session context.
func (e *Engine) fallback(ctx context.Context, sess *session.Session, utterance, lang string, entities map[string]string) *Result {
	sess.SetContext("")
	suggestions := e.suggestions(utterance, lang)

	if e.api != nil {
		answer, err := e.api.Ask(ctx, utterance)
		if err == nil {
			if answer == "" {
				answer = e.defaultAnswer()
			}
			return &Result{Answer: answer, Source: SourceAPIFallback, Suggestions: suggestions}
		}
		e.log.Warnw("api fallback failed", "error", err)
	}

	if item, ok := e.base.Fallback(lang); ok {
		return &Result{
			Answer:      personalize(selectAnswer(item.Answers), entities),
			Source:      SourceLocalFallback,
			Suggestions: suggestions,
		}
	}

	return &Result{Answer: e.defaultAnswer(), Source: SourceDefault, Suggestions: suggestions}
}

func (e *Engine) defaultAnswer() string {
	if s := e.base.Settings.DefaultAnswer; s != "" {
		return s
	}
	return DefaultAnswer
}

// suggestions offers "did you mean" question texts from the detected
// language's pool.
func (e *Engine) suggestions(utterance, lang string) []string {
	var pool []string
	for _, it := range e.base.Candidates(lang) {
		pool = append(pool, it.Questions...)
	}
	return match.Suggest(utterance, pool, maxSuggestions)
}

func (e *Engine) record(ctx context.Context, sessionID, utterance string, res *Result) {
	if e.recorder == nil {
		return
	}
	rec := Record{
		SessionID: sessionID,
		Utterance: utterance,
		Answer:    res.Answer,
		Source:    res.Source,
		Language:  res.Language,
		Intent:    res.Intent,
		Score:     res.Score,
	}
	if err := e.recorder.Record(ctx, rec); err != nil {
		e.log.Warnw("transcript record failed", "error", err, "session_id", sessionID)
	}
}

func contextRef(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
