// Package typeinfo gives Go types string identifiers and constructor
// metadata so a container can autowire them.
//
// Go has no runtime lookup of types by name, so types are registered up
// front, either bare (built with new(T)) or through a constructor
// function whose parameter types are introspected with reflect.
//
// # Identifiers
//
//	typeinfo.KeyOf[*mail.SMTPMailer]()  // "example.com/app/mail.SMTPMailer"
//	typeinfo.KeyOf[int]()               // "int"
//
// # Registration
//
//	reg := typeinfo.NewRegistry()
//
//	// Interface: exists, never instantiable.
//	typeinfo.Declare[mail.Transport](reg)
//
//	// Concrete type without a constructor.
//	typeinfo.Declare[mail.SMTPTransport](reg)
//
//	// Constructor with a defaulted scalar parameter.
//	typeinfo.MustConstructor(reg, mail.NewMailer,
//	    typeinfo.Names("transport", "from"),
//	    typeinfo.DefaultArg(1, "noreply@example.com"),
//	)
//
// # Construction
//
//	params, hasCtor := reg.Params(id)
//	v, err := reg.New(id, args)
package typeinfo
