/*
Package registry tracks the domain classes known to a store.

Classes are registered once, typically while wiring the application, and
looked up by Go type when a persistent method is invoked or by name when a
stored item carries its class name in an EntityType attribute:

	classes := registry.NewClasses()
	classes.MustRegister(bookClass, authorClass)

	c, ok := classes.Lookup(reflect.TypeOf(&Book{}))  // pointer types resolve too
	c, ok = classes.ByName("Book")

The registry is thread-safe. There is no package-level instance: each store
owns its own.
*/
package registry
