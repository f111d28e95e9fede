package kb

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/wicaksana/tanya/errors"
	"github.com/wicaksana/tanya/match"
)

// DefaultThreshold applies when the settings omit <threshold>.
const DefaultThreshold = 0.4

// xmlKnowledge mirrors the knowledge file schema.
type xmlKnowledge struct {
	XMLName  xml.Name     `xml:"knowledge"`
	Settings *xmlSettings `xml:"settings"`
	Intents  []xmlIntent  `xml:"intents>intent"`
	Entities []xmlEntity  `xml:"entities>entity"`
	Items    []xmlItem    `xml:"items>item"`
	Contexts []xmlContext `xml:"contexts>context"`
}

type xmlSettings struct {
	Threshold          *float64        `xml:"threshold"`
	AutoDetectLanguage *bool           `xml:"autoDetectLanguage"`
	DefaultLanguage    string          `xml:"defaultLanguage"`
	Tokenizer          string          `xml:"tokenizer"`
	DefaultAnswer      string          `xml:"defaultAnswer"`
	APIFallback        *xmlAPIFallback `xml:"apiFallback"`
}

type xmlAPIFallback struct {
	URL string `xml:"url,attr"`
}

type xmlIntent struct {
	Name     string   `xml:"name,attr"`
	Keywords []string `xml:"keyword"`
}

type xmlEntity struct {
	Name   string   `xml:"name,attr"`
	Values []string `xml:"value"`
}

type xmlItem struct {
	ID        string   `xml:"id,attr"`
	Lang      string   `xml:"lang,attr"`
	Intent    string   `xml:"intent,attr"`
	Weight    *float64 `xml:"weight,attr"`
	Threshold *float64 `xml:"threshold,attr"`
	Next      string   `xml:"next,attr"`
	Questions []string `xml:"question"`
	Answers   []string `xml:"answer"`
}

type xmlContext struct {
	ID    string    `xml:"id,attr"`
	Items []xmlItem `xml:"item"`
}

// Load reads, validates, and indexes a knowledge file. Any malformed or
// missing required section is an error; callers treat that as fatal and
// never serve against a partially loaded base.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read knowledge file %s", path)
	}

	var doc xmlKnowledge
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse knowledge file %s", path)
	}

	kb, err := build(&doc)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid knowledge file %s", path)
	}
	return kb, nil
}

// build converts the raw document into a validated, indexed KnowledgeBase.
func build(doc *xmlKnowledge) (*KnowledgeBase, error) {
	if doc.Settings == nil {
		return nil, errors.New("missing <settings> section")
	}
	if len(doc.Items) == 0 {
		return nil, errors.New("missing <items> section or no items defined")
	}

	settings, err := buildSettings(doc.Settings)
	if err != nil {
		return nil, err
	}

	tokenizer, err := match.ResolveTokenizer(settings.Tokenizer)
	if err != nil {
		return nil, err
	}
	settings.Tokenizer = tokenizer.Name()

	kb := &KnowledgeBase{
		Settings:  settings,
		Tokenizer: tokenizer,
		contexts:  make(map[string]*Context),
		byLang:    make(map[string][]*QAItem),
		byID:      make(map[string]*QAItem),
	}

	seenIntents := make(map[string]struct{}, len(doc.Intents))
	for _, in := range doc.Intents {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, errors.New("intent without a name")
		}
		if _, dup := seenIntents[name]; dup {
			return nil, errors.Newf("duplicate intent name %q", name)
		}
		seenIntents[name] = struct{}{}
		kb.Intents = append(kb.Intents, Intent{Name: name, Keywords: in.Keywords})
	}

	seenEntities := make(map[string]struct{}, len(doc.Entities))
	for _, en := range doc.Entities {
		name := strings.TrimSpace(en.Name)
		if name == "" {
			return nil, errors.New("entity without a name")
		}
		if _, dup := seenEntities[name]; dup {
			return nil, errors.Newf("duplicate entity name %q", name)
		}
		seenEntities[name] = struct{}{}
		kb.Entities = append(kb.Entities, Entity{
			Name:     name,
			Values:   en.Values,
			valueSet: lowerSet(en.Values),
		})
	}

	for i, raw := range doc.Items {
		item, err := buildItem(raw, "", fmt.Sprintf("item-%d", i+1))
		if err != nil {
			return nil, err
		}
		if err := kb.index(item); err != nil {
			return nil, err
		}
		kb.Items = append(kb.Items, item)
	}

	for _, rawCtx := range doc.Contexts {
		id := strings.TrimSpace(rawCtx.ID)
		if id == "" {
			return nil, errors.New("context without an id")
		}
		if _, dup := kb.contexts[id]; dup {
			return nil, errors.Newf("duplicate context id %q", id)
		}
		ctx := &Context{ID: id}
		for i, raw := range rawCtx.Items {
			item, err := buildItem(raw, id, fmt.Sprintf("%s-%d", id, i+1))
			if err != nil {
				return nil, err
			}
			if err := kb.index(item); err != nil {
				return nil, err
			}
			ctx.Items = append(ctx.Items, item)
		}
		kb.contexts[id] = ctx
	}

	langs := make([]string, 0, len(kb.byLang))
	for lang := range kb.byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	kb.languages = langs

	// Dangling next references are warnings, not errors: at runtime an
	// unresolved context simply means "no active context".
	for _, item := range kb.byID {
		if item.Next != "" {
			if _, ok := kb.contexts[item.Next]; !ok {
				kb.warnings = append(kb.warnings, fmt.Sprintf("item %q references unknown context %q", item.ID, item.Next))
			}
		}
	}
	sort.Strings(kb.warnings)

	return kb, nil
}

func buildSettings(raw *xmlSettings) (Settings, error) {
	s := Settings{
		DefaultThreshold:   DefaultThreshold,
		AutoDetectLanguage: true,
		DefaultLanguage:    strings.TrimSpace(raw.DefaultLanguage),
		Tokenizer:          strings.TrimSpace(raw.Tokenizer),
		DefaultAnswer:      strings.TrimSpace(raw.DefaultAnswer),
	}
	if raw.Threshold != nil {
		s.DefaultThreshold = *raw.Threshold
	}
	if raw.AutoDetectLanguage != nil {
		s.AutoDetectLanguage = *raw.AutoDetectLanguage
	}
	if raw.APIFallback != nil {
		s.APIFallbackURL = strings.TrimSpace(raw.APIFallback.URL)
		if s.APIFallbackURL == "" {
			return Settings{}, errors.New("settings.apiFallback requires a url attribute")
		}
	}

	if s.DefaultLanguage == "" {
		return Settings{}, errors.New("settings.defaultLanguage is required")
	}
	if s.DefaultThreshold <= 0 || s.DefaultThreshold > 1 {
		return Settings{}, errors.Newf("settings.threshold must be in (0,1], got %v", s.DefaultThreshold)
	}
	return s, nil
}

func buildItem(raw xmlItem, contextID, fallbackID string) (*QAItem, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = fallbackID
	}

	item := &QAItem{
		ID:        id,
		Lang:      strings.TrimSpace(raw.Lang),
		Intent:    strings.TrimSpace(raw.Intent),
		Questions: trimAll(raw.Questions),
		Answers:   trimAll(raw.Answers),
		Weight:    1.0,
		Threshold: raw.Threshold,
		Next:      strings.TrimSpace(raw.Next),
		ContextID: contextID,
	}
	if raw.Weight != nil {
		item.Weight = *raw.Weight
	}

	if item.Lang == "" {
		return nil, errors.Newf("item %q has no lang attribute", id)
	}
	if len(item.Questions) == 0 {
		return nil, errors.Newf("item %q has no questions", id)
	}
	if len(item.Answers) == 0 {
		return nil, errors.Newf("item %q has no answers", id)
	}
	if item.Weight <= 0 {
		return nil, errors.Newf("item %q has non-positive weight %v", id, item.Weight)
	}
	if item.Threshold != nil && (*item.Threshold <= 0 || *item.Threshold > 1) {
		return nil, errors.Newf("item %q threshold must be in (0,1], got %v", id, *item.Threshold)
	}
	return item, nil
}

func (k *KnowledgeBase) index(item *QAItem) error {
	if _, dup := k.byID[item.ID]; dup {
		return errors.Newf("duplicate item id %q", item.ID)
	}
	k.byID[item.ID] = item
	k.byLang[item.Lang] = append(k.byLang[item.Lang], item)
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
