/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package testmodels holds domain entities shared by the package tests.
package testmodels

import (
	"sync"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/validation"
)

// Book is a validateable entity implementing every lifecycle hook.
type Book struct {
	ID    int64
	Title string
	// ISBN must be unique.
	ISBN   string
	Author string
	Pages  int
	// Format: date-time
	PublishedAt *strfmt.DateTime
	Released    strfmt.Date

	// FailHook names a hook that returns an error, e.g. "BeforeInsert".
	FailHook string
	// Invalid makes Validate fail with a global error.
	Invalid bool

	mu     sync.Mutex
	events []string
	errs   *validation.Errors
}

// BookClass describes Book.
var BookClass = func() *entity.Class {
	b := entity.Define[Book]("Book").
		Identity("id", func(b *Book) int64 { return b.ID }, func(b *Book, id int64) { b.ID = id })
	entity.Field(b, "title", func(b *Book) string { return b.Title }, func(b *Book, v string) { b.Title = v })
	entity.Field(b, "isbn", func(b *Book) string { return b.ISBN }, func(b *Book, v string) { b.ISBN = v }, entity.Unique())
	entity.Field(b, "author", func(b *Book) string { return b.Author }, func(b *Book, v string) { b.Author = v })
	entity.Field(b, "pages", func(b *Book) int { return b.Pages }, func(b *Book, v int) { b.Pages = v })
	entity.Field(b, "publishedAt", func(b *Book) *strfmt.DateTime { return b.PublishedAt }, func(b *Book, v *strfmt.DateTime) { b.PublishedAt = v })
	entity.Field(b, "released", func(b *Book) strfmt.Date { return b.Released }, func(b *Book, v strfmt.Date) { b.Released = v })
	return b.MustBuild()
}()

func (b *Book) Errors() *validation.Errors {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.errs == nil {
		b.errs = validation.NewErrors("Book")
	}
	return b.errs
}

func (b *Book) Validate() bool {
	errs := b.Errors()
	if b.Invalid {
		errs.Reject("invalid", "book marked invalid")
	}
	if b.Title == "" {
		errs.RejectField("title", b.Title, "blank", "title must not be blank")
	}
	return !errs.HasErrors()
}

// Events returns the hooks run so far, in order.
func (b *Book) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

func (b *Book) record(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, name)
	if b.FailHook == name {
		return &HookError{Hook: name}
	}
	return nil
}

func (b *Book) BeforeInsert() error { return b.record("BeforeInsert") }
func (b *Book) BeforeUpdate() error { return b.record("BeforeUpdate") }
func (b *Book) OnSave() error       { return b.record("OnSave") }
func (b *Book) AfterInsert() error  { return b.record("AfterInsert") }
func (b *Book) AfterUpdate() error  { return b.record("AfterUpdate") }
func (b *Book) BeforeDelete() error { return b.record("BeforeDelete") }

// HookError is returned by a hook selected with FailHook.
type HookError struct{ Hook string }

func (e *HookError) Error() string { return e.Hook + " failed" }

// Person is a plain entity without validation or hooks.
type Person struct {
	ID    int64
	Name  string
	Age   int
	Email *string
}

// PersonClass describes Person.
var PersonClass = func() *entity.Class {
	b := entity.Define[Person]("Person").
		Identity("id", func(p *Person) int64 { return p.ID }, func(p *Person, id int64) { p.ID = id })
	entity.Field(b, "name", func(p *Person) string { return p.Name }, func(p *Person, v string) { p.Name = v })
	entity.Field(b, "age", func(p *Person) int { return p.Age }, func(p *Person, v int) { p.Age = v })
	entity.Field(b, "email", func(p *Person) *string { return p.Email }, func(p *Person, v *string) { p.Email = v }, entity.Unique())
	return b.MustBuild()
}()

// Ptr returns a pointer to v.
func Ptr[V any](v V) *V { return &v }
