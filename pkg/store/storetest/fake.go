// Package storetest provides an in-memory IMongoCollection for tests. It
// interprets the update operators the repos actually issue ($set, $setOnInsert,
// $push, $addToSet, $pull, $inc with array filters) and applies each update
// under one mutex, which models the single-document linearization point a real
// document store guarantees.
package storetest

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/store"
)

type Collection struct {
	mu       sync.Mutex
	docs     []bson.M
	failNext error
}

var _ store.IMongoCollection = (*Collection)(nil)

func NewCollection() *Collection {
	return &Collection{}
}

// Seed inserts documents without the atomicity bookkeeping. Panics on
// malformed documents so tests fail loudly at setup.
func (c *Collection) Seed(docs ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range docs {
		c.docs = append(c.docs, canonical(d))
	}
}

// FailNextWrite makes the next mutating call return err instead of applying.
func (c *Collection) FailNextWrite(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext = err
}

func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

// Snapshot returns deep copies of all documents matching the filter.
func (c *Collection) Snapshot(filter interface{}) []bson.M {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := canonical(filter)
	var out []bson.M
	for _, d := range c.docs {
		if matches(d, f) {
			out = append(out, canonical(d))
		}
	}
	return out
}

func (c *Collection) takeFailure() error {
	err := c.failNext
	c.failNext = nil
	return err
}

// InsertOne implements store.IMongoCollection.
func (c *Collection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (store.IMongoInsertOneResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, canonical(document))
	return fakeInsertOneResult{}, nil
}

// UpdateOne implements store.IMongoCollection.
func (c *Collection) UpdateOne(_ context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (store.IMongoUpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}

	f, u := canonical(filter), canonical(update)
	upsert, filters := false, []bson.M(nil)
	for _, o := range opts {
		if o == nil {
			continue
		}
		if o.Upsert != nil {
			upsert = *o.Upsert
		}
		if o.ArrayFilters != nil {
			filters = canonicalFilters(o.ArrayFilters.Filters)
		}
	}

	idx := c.indexOf(f)
	if idx < 0 {
		if !upsert {
			return fakeUpdateResult{matched: 0}, nil
		}
		doc, err := upsertDoc(f, u, filters)
		if err != nil {
			return nil, err
		}
		c.docs = append(c.docs, doc)
		return fakeUpdateResult{matched: 0}, nil
	}

	if err := applyUpdate(c.docs[idx], u, filters, false); err != nil {
		return nil, err
	}
	return fakeUpdateResult{matched: 1}, nil
}

// FindOne implements store.IMongoCollection.
func (c *Collection) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) store.IMongoSingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(canonical(filter))
	if idx < 0 {
		return fakeSingleResult{err: mongo.ErrNoDocuments}
	}
	return fakeSingleResult{doc: canonical(c.docs[idx])}
}

// FindOneAndUpdate implements store.IMongoCollection.
func (c *Collection) FindOneAndUpdate(_ context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) store.IMongoSingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return fakeSingleResult{err: err}
	}

	f, u := canonical(filter), canonical(update)
	upsert, after, filters := false, false, []bson.M(nil)
	for _, o := range opts {
		if o == nil {
			continue
		}
		if o.Upsert != nil {
			upsert = *o.Upsert
		}
		if o.ReturnDocument != nil {
			after = *o.ReturnDocument == options.After
		}
		if o.ArrayFilters != nil {
			filters = canonicalFilters(o.ArrayFilters.Filters)
		}
	}

	idx := c.indexOf(f)
	if idx < 0 {
		if !upsert {
			return fakeSingleResult{err: mongo.ErrNoDocuments}
		}
		doc, err := upsertDoc(f, u, filters)
		if err != nil {
			return fakeSingleResult{err: err}
		}
		c.docs = append(c.docs, doc)
		if !after {
			return fakeSingleResult{err: mongo.ErrNoDocuments}
		}
		return fakeSingleResult{doc: canonical(doc)}
	}

	before := canonical(c.docs[idx])
	if err := applyUpdate(c.docs[idx], u, filters, false); err != nil {
		return fakeSingleResult{err: err}
	}
	if after {
		return fakeSingleResult{doc: canonical(c.docs[idx])}
	}
	return fakeSingleResult{doc: before}
}

// Find implements store.IMongoCollection.
func (c *Collection) Find(_ context.Context, filter interface{}, _ ...*options.FindOptions) (store.IMongoCursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := canonical(filter)
	var out []bson.M
	for _, d := range c.docs {
		if matches(d, f) {
			out = append(out, canonical(d))
		}
	}
	return &fakeCursor{docs: out}, nil
}

func (c *Collection) indexOf(filter bson.M) int {
	for i, d := range c.docs {
		if matches(d, filter) {
			return i
		}
	}
	return -1
}

// upsertDoc builds the document an upsert inserts: the filter's equality
// pairs merged with the update, $setOnInsert included.
func upsertDoc(filter, update bson.M, arrayFilters []bson.M) (bson.M, error) {
	doc := bson.M{}
	for k, v := range filter {
		setPath(doc, k, v)
	}
	if err := applyUpdate(doc, update, arrayFilters, true); err != nil {
		return nil, err
	}
	return doc, nil
}

func applyUpdate(doc, update bson.M, arrayFilters []bson.M, inserting bool) error {
	for op, rawSpec := range update {
		spec, ok := rawSpec.(bson.M)
		if !ok {
			return fmt.Errorf("storetest: malformed %s spec %T", op, rawSpec)
		}
		for path, arg := range spec {
			switch op {
			case "$set":
				setPath(doc, path, arg)
			case "$setOnInsert":
				if inserting {
					setPath(doc, path, arg)
				}
			case "$push":
				arr := asArray(getPath(doc, path))
				setPath(doc, path, append(arr, arg))
			case "$addToSet":
				arr := asArray(getPath(doc, path))
				if !contains(arr, arg) {
					arr = append(arr, arg)
				}
				setPath(doc, path, arr)
			case "$pull":
				arr := asArray(getPath(doc, path))
				kept := bson.A{}
				for _, el := range arr {
					if !pullMatches(el, arg) {
						kept = append(kept, el)
					}
				}
				setPath(doc, path, kept)
			case "$inc":
				if err := incPath(doc, path, arg, arrayFilters); err != nil {
					return err
				}
			default:
				return fmt.Errorf("storetest: unsupported operator %s", op)
			}
		}
	}
	return nil
}

// incPath walks a dotted path that may contain $[ident] placeholders resolved
// through the update's array filters, creating intermediate maps as needed,
// and increments the numeric leaf (absent leaf counts as zero).
func incPath(doc bson.M, path string, arg interface{}, arrayFilters []bson.M) error {
	segments := strings.Split(path, ".")
	var cur interface{} = doc
	for _, seg := range segments[:len(segments)-1] {
		if strings.HasPrefix(seg, "$[") && strings.HasSuffix(seg, "]") {
			ident := seg[2 : len(seg)-1]
			arr, ok := cur.(bson.A)
			if !ok {
				return fmt.Errorf("storetest: %s addresses a non-array", seg)
			}
			el, err := matchArrayFilter(arr, ident, arrayFilters)
			if err != nil {
				return err
			}
			cur = el
			continue
		}
		m, ok := cur.(bson.M)
		if !ok {
			return fmt.Errorf("storetest: path %s walks through a non-document", path)
		}
		next, ok := m[seg]
		if !ok || next == nil {
			child := bson.M{}
			m[seg] = child
			cur = interface{}(child)
			continue
		}
		cur = next
	}

	leafParent, ok := cur.(bson.M)
	if !ok {
		return fmt.Errorf("storetest: path %s leaf parent is not a document", path)
	}
	leaf := segments[len(segments)-1]
	leafParent[leaf] = toInt64(leafParent[leaf]) + toInt64(arg)
	return nil
}

func matchArrayFilter(arr bson.A, ident string, arrayFilters []bson.M) (interface{}, error) {
	for _, f := range arrayFilters {
		applies := false
		for key := range f {
			if key == ident || strings.HasPrefix(key, ident+".") {
				applies = true
			}
		}
		if !applies {
			continue
		}
		for _, el := range arr {
			elDoc, ok := el.(bson.M)
			if !ok {
				continue
			}
			all := true
			for key, want := range f {
				field := strings.TrimPrefix(key, ident+".")
				got, found := lookupPath(elDoc, field)
				if !found || !valuesEqual(got, want) {
					all = false
					break
				}
			}
			if all {
				return el, nil
			}
		}
		return nil, fmt.Errorf("storetest: no array element matches filter for $[%s]", ident)
	}
	return nil, fmt.Errorf("storetest: no array filter declares identifier %s", ident)
}

func matches(doc, filter bson.M) bool {
	for path, want := range filter {
		got, ok := lookupPath(doc, path)
		if !ok {
			return false
		}
		if arr, isArr := got.(bson.A); isArr {
			if _, wantArr := want.(bson.A); !wantArr {
				if !contains(arr, want) {
					return false
				}
				continue
			}
		}
		if !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func lookupPath(doc bson.M, path string) (interface{}, bool) {
	segments := strings.Split(path, ".")
	var cur interface{} = doc
	for _, seg := range segments {
		m, ok := cur.(bson.M)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// getPath reads a dotted path; an absent path reads as nil.
func getPath(doc bson.M, path string) interface{} {
	v, _ := lookupPath(doc, path)
	return v
}

func setPath(doc bson.M, path string, v interface{}) {
	segments := strings.Split(path, ".")
	cur := doc
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur[seg].(bson.M)
		if !ok {
			next = bson.M{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segments[len(segments)-1]] = v
}

func pullMatches(el, arg interface{}) bool {
	cond, ok := arg.(bson.M)
	if !ok {
		return valuesEqual(el, arg)
	}
	elDoc, ok := el.(bson.M)
	if !ok {
		return false
	}
	for k, want := range cond {
		got, found := lookupPath(elDoc, k)
		if !found || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func contains(arr bson.A, v interface{}) bool {
	for _, el := range arr {
		if valuesEqual(el, v) {
			return true
		}
	}
	return false
}

func asArray(v interface{}) bson.A {
	if v == nil {
		return bson.A{}
	}
	arr, ok := v.(bson.A)
	if !ok {
		return bson.A{}
	}
	return arr
}

func valuesEqual(a, b interface{}) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	af, aok := asInt64(a)
	bf, bok := asInt64(b)
	return aok && bok && af == bf
}

func toInt64(v interface{}) int64 {
	n, _ := asInt64(v)
	return n
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// canonical round-trips any document through bson so stored documents,
// filters, and updates all compare with the same concrete types.
func canonical(v interface{}) bson.M {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("storetest: can't marshal %T: %v", v, err))
	}
	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("storetest: can't unmarshal %T: %v", v, err))
	}
	return out
}

func canonicalFilters(filters []interface{}) []bson.M {
	out := make([]bson.M, 0, len(filters))
	for _, f := range filters {
		out = append(out, canonical(f))
	}
	return out
}

type fakeInsertOneResult struct{}

type fakeUpdateResult struct{ matched int64 }

func (r fakeUpdateResult) MatchedCount() int64 { return r.matched }

type fakeSingleResult struct {
	doc bson.M
	err error
}

func (r fakeSingleResult) Decode(out interface{}) error {
	if r.err != nil {
		return r.err
	}
	raw, err := bson.Marshal(r.doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

type fakeCursor struct{ docs []bson.M }

func (c *fakeCursor) Close(context.Context) error { return nil }

func (c *fakeCursor) All(_ context.Context, out interface{}) error {
	slice := reflect.ValueOf(out).Elem()
	elemType := slice.Type().Elem()
	for _, d := range c.docs {
		raw, err := bson.Marshal(d)
		if err != nil {
			return err
		}
		if elemType.Kind() == reflect.Ptr {
			el := reflect.New(elemType.Elem())
			if err := bson.Unmarshal(raw, el.Interface()); err != nil {
				return err
			}
			slice.Set(reflect.Append(slice, el))
			continue
		}
		el := reflect.New(elemType)
		if err := bson.Unmarshal(raw, el.Interface()); err != nil {
			return err
		}
		slice.Set(reflect.Append(slice, el.Elem()))
	}
	return nil
}
