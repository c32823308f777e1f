// Package schema turns form schema documents into state trees.
//
// A document has two top-level sections:
//
//	messages:
//	  required: "Please fill this in."
//	  email.email: "That does not look like an email."
//	fields:
//	  email: { rules: [ required, { email: {} } ] }
//	  address: { kind: group, fields: { city: { rules: [ required ] } } }
//	  contacts:
//	    kind: collection
//	    fields:
//	      phone: { rules: [ { requiredIf: { lua: "value ~= ''" } } ] }
//
// Rules are single-key mappings from a rule name to its arguments, or a bare
// rule name when it takes none. Every rule accepts an optional message.
// Lua sources run sandboxed with the field value bound to the global value.
package schema
