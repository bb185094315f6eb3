/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entity

// Lifecycle hooks are optional interfaces implemented by entities. An error
// returned by a hook aborts the remaining steps of the save or delete; state
// already mutated is not rolled back.

type BeforeInsertHook interface {
	BeforeInsert() error
}

type BeforeUpdateHook interface {
	BeforeUpdate() error
}

// OnSaveHook runs after every insert or update, before the after-hooks.
type OnSaveHook interface {
	OnSave() error
}

type AfterInsertHook interface {
	AfterInsert() error
}

type AfterUpdateHook interface {
	AfterUpdate() error
}

type BeforeDeleteHook interface {
	BeforeDelete() error
}
