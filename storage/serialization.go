// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/tupper/core"
)

// dishFormatVersion prefixes every encoded dish.
const dishFormatVersion = 1

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalDish serializes a Dish to bytes.
func MarshalDish(dish *core.Dish) []byte {
	w := &writer{}
	encodeDish(w, dish) // sizing pass
	w.bs = make([]byte, w.n)
	w.n = 0
	encodeDish(w, dish)
	return w.bs
}

// UnmarshalDish deserializes a Dish from bytes.
func UnmarshalDish(data []byte) (*core.Dish, error) {
	r := &reader{bs: data}
	dish := decodeDish(r)
	if r.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, r.err)
	}
	return dish, nil
}

func encodeDish(w *writer, d *core.Dish) {
	w.uint64(dishFormatVersion)
	w.uint64(uint64(d.Id))
	w.string(d.Name)
	w.string(d.Description)
	w.string(d.Ingredients)
	w.string(d.Allergens)
	for _, q := range []core.Quantity{d.Kcal, d.Protein, d.Carbs, d.Fat, d.Weight, d.Price} {
		w.quantity(q)
	}

	// Only known tags are written, in canonical order
	known := 0
	for _, t := range core.Tags {
		if _, ok := d.Tag(t); ok {
			known++
		}
	}
	w.uint64(uint64(known))
	for _, t := range core.Tags {
		if v, ok := d.Tag(t); ok {
			w.string(string(t))
			w.bool(v)
		}
	}

	w.uint64(uint64(len(d.Vector)))
	for _, f := range d.Vector {
		w.uint32(math.Float32bits(f))
	}

	w.time(d.InsertedAt)
	w.time(d.UpdatedAt)
}

func decodeDish(r *reader) *core.Dish {
	if version := r.uint64(); r.err == nil && version != dishFormatVersion {
		r.fail(fmt.Errorf("unsupported dish format version %d", version))
	}

	d := &core.Dish{}
	d.Id = core.ID(r.uint64())
	d.Name = r.string()
	d.Description = r.string()
	d.Ingredients = r.string()
	d.Allergens = r.string()
	d.Kcal = r.quantity()
	d.Protein = r.quantity()
	d.Carbs = r.quantity()
	d.Fat = r.quantity()
	d.Weight = r.quantity()
	d.Price = r.quantity()

	tagCount := r.length()
	if tagCount > 0 {
		d.Tags = make(map[core.Tag]bool, tagCount)
	}
	for i := 0; i < tagCount && r.err == nil; i++ {
		name := r.string()
		value := r.bool()
		if r.err != nil {
			break
		}
		// Tags written by a newer catalog are skipped rather than rejected
		if t, ok := core.ParseTag(name); ok {
			d.Tags[t] = value
		}
	}

	vecLen := r.length()
	if vecLen > 0 {
		d.Vector = make([]float32, vecLen)
	}
	for i := 0; i < vecLen && r.err == nil; i++ {
		d.Vector[i] = math.Float32frombits(r.uint32())
	}

	d.InsertedAt = r.time()
	d.UpdatedAt = r.time()

	if r.err != nil {
		return nil
	}
	return d
}

// writer marshals primitives into bs. With a nil buffer it only
// accumulates the encoded size.
type writer struct {
	bs []byte
	n  int
}

func (w *writer) uint64(v uint64) {
	if w.bs == nil {
		w.n += varint.Uint64.Size(v)
		return
	}
	w.n += varint.Uint64.Marshal(v, w.bs[w.n:])
}

func (w *writer) uint32(v uint32) {
	if w.bs == nil {
		w.n += varint.Uint32.Size(v)
		return
	}
	w.n += varint.Uint32.Marshal(v, w.bs[w.n:])
}

func (w *writer) int64(v int64) {
	if w.bs == nil {
		w.n += varint.Int64.Size(v)
		return
	}
	w.n += varint.Int64.Marshal(v, w.bs[w.n:])
}

func (w *writer) string(v string) {
	if w.bs == nil {
		w.n += ord.String.Size(v)
		return
	}
	w.n += ord.String.Marshal(v, w.bs[w.n:])
}

func (w *writer) bool(v bool) {
	if w.bs == nil {
		w.n += ord.Bool.Size(v)
		return
	}
	w.n += ord.Bool.Marshal(v, w.bs[w.n:])
}

func (w *writer) quantity(q core.Quantity) {
	w.bool(q.Valid)
	if q.Valid {
		w.uint64(math.Float64bits(q.Value))
	}
}

func (w *writer) time(t time.Time) {
	if t.IsZero() {
		w.bool(false)
		return
	}
	w.bool(true)
	w.int64(t.UnixMicro())
}

// reader unmarshals primitives from bs, remembering the first error.
type reader struct {
	bs  []byte
	n   int
	err error
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) rest() []byte {
	if r.n >= len(r.bs) {
		return nil
	}
	return r.bs[r.n:]
}

func (r *reader) uint64() uint64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(r.rest())
	r.n += n
	r.fail(err)
	return v
}

func (r *reader) uint32() uint32 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint32.Unmarshal(r.rest())
	r.n += n
	r.fail(err)
	return v
}

func (r *reader) int64() int64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(r.rest())
	r.n += n
	r.fail(err)
	return v
}

func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.rest())
	r.n += n
	r.fail(err)
	return v
}

func (r *reader) bool() bool {
	if r.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(r.rest())
	r.n += n
	r.fail(err)
	return v
}

// length reads a collection length and rejects values that cannot fit in
// the remaining input.
func (r *reader) length() int {
	v := r.uint64()
	if r.err != nil {
		return 0
	}
	if v > uint64(len(r.bs)-r.n) {
		r.fail(ErrTruncatedData)
		return 0
	}
	return int(v)
}

func (r *reader) quantity() core.Quantity {
	if !r.bool() {
		return core.Missing
	}
	return core.Known(math.Float64frombits(r.uint64()))
}

func (r *reader) time() time.Time {
	if !r.bool() {
		return time.Time{}
	}
	return time.UnixMicro(r.int64()).UTC()
}
