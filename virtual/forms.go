package virtual

import (
	"sync"

	"github.com/oomph-ac/knockback/entity"
)

type form struct {
	kind     entity.FormKind
	keywords map[entity.FormID]struct{}
}

func (f form) Kind() entity.FormKind { return f.kind }

func (f form) HasKeyword(kw entity.FormID) bool {
	_, ok := f.keywords[kw]
	return ok
}

// Forms is an in-memory form table.
type Forms struct {
	mu    sync.RWMutex
	forms map[entity.FormID]form
}

// NewForms creates an empty form table.
func NewForms() *Forms {
	return &Forms{forms: make(map[entity.FormID]form)}
}

// AddWeapon registers a weapon carrying the given keywords.
func (f *Forms) AddWeapon(id entity.FormID, keywords ...entity.FormID) {
	f.add(id, entity.FormKindWeapon, keywords)
}

// AddMagicItem registers a spell, scroll or enchantment.
func (f *Forms) AddMagicItem(id entity.FormID) {
	f.add(id, entity.FormKindMagicItem, nil)
}

// AddOther registers a form that is neither a weapon nor a magic item.
func (f *Forms) AddOther(id entity.FormID) {
	f.add(id, entity.FormKindOther, nil)
}

func (f *Forms) add(id entity.FormID, kind entity.FormKind, keywords []entity.FormID) {
	kws := make(map[entity.FormID]struct{}, len(keywords))
	for _, kw := range keywords {
		kws[kw] = struct{}{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms[id] = form{kind: kind, keywords: kws}
}

// LookupForm ...
func (f *Forms) LookupForm(id entity.FormID) (entity.Form, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fm, ok := f.forms[id]
	if !ok {
		return nil, false
	}
	return fm, true
}
