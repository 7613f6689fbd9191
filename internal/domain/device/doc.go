// Package device contains the externally visible device model: the status
// codes published to the sender, who issued a command, and the persisted
// output settings. Clone helpers keep callers from sharing internal state.
package device
