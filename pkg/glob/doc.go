// Package glob implements the fgroup pattern dialect.
//
// A pattern is a slash separated list of segments. Each segment matches
// exactly one path segment, except the recursive segment "**" which matches
// zero or more whole segments. Inside a segment:
//
//	*       any run of characters, including none
//	?       exactly one character
//	[abc]   one character from the set; ranges like [a-z] are allowed
//	[!abc]  one character not in the set; [^abc] is accepted as well
//
// There is no backslash escape. A special character is matched literally by
// wrapping it in a one element class: "[*]" only matches a file named "*".
// Names starting with a dot are not hidden. "." segments are dropped, so the
// pattern "." names the context directory itself.
//
// Because "**" may span any number of levels, a Pattern is evaluated as a
// small NFA that the traversal advances one segment per directory level
// (Start, Step, Accepts, Pending) instead of being matched once against a
// complete path.
package glob
