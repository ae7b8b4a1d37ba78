// Package family defines the input records of a family tree and the
// normalized person payload carried by every tree node.
//
// A [Record] is the serialized shape read from YAML, JSON or MongoDB:
//
//	name: Anna
//	gender: female
//	spouse: Karl
//	bio: Born in Kassel.
//	children:
//	  - name: Ida
//	    spouse: { name: Otto }
//
// Records are converted into [Person] values when a hierarchy is built.
// Unknown gender values are not an error; they map to [Unknown].
package family
