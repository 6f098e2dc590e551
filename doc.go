// Package wizard turns annotated Go struct types into presentation-agnostic
// question schemas and maps collected answers back into typed values.
//
// The engine is the pair of inverse operations at the heart of the module:
//
//	sch, err := wizard.Derive[Profile]()          // shape -> question tree
//	val, err := wizard.Reconstruct[Profile](ans)  // answers -> shape value
//
// Shapes are plain structs whose exported fields carry a `prompt` tag and an
// optional `wizard` tag for attributes:
//
//	type Profile struct {
//	    Name string `prompt:"Your full name"`
//	    Age  int    `prompt:"Your age" wizard:"min=18,max=120"`
//	    Bio  string `prompt:"Tell us about yourself" wizard:"multiline"`
//	}
//
// Closed variant sets (one-of / any-of selections) are interface types
// registered once per process with RegisterEnum; struct fields typed to a
// registered interface derive to a one-of question group, and slices of a
// registered interface marked `wizard:"multiselect"` derive to an
// independent multi-selection.
//
// Derivation and reconstruction are pure, synchronous functions over
// immutable inputs: they never block, never mutate the answer store they are
// given, and are safe to call concurrently. Everything interactive lives
// behind the Collector interface; see the termprompt package for a terminal
// collector and wizardtest for a scripted one. Document generators consume
// the derived schema alone (see docgen), and serialized answer stores are
// the store package's business.
//
// Authoring mistakes (missing prompt, malformed attributes, multiselect over
// a non-enum element) surface as *AuthoringError from Derive, never later.
// Validation failures are per-path message strings collected by a Validator.
// Reconstruction failures are typed errors naming the offending path; a
// store that passed ValidateAll cannot produce one.
package wizard
