/*

Package vss is a client for a hosted Versioned Storage Service (VSS): a
key-value store partitioned into caller-named stores, where every value
carries a server-assigned version number used for optimistic concurrency
control. The API is deliberately minimal and congruent to the server side:
GetObject, PutObject, DeleteObject and ListKeyVersions, each a single POST of
a protobuf body to a fixed path suffix under one base endpoint.

Versions And Conflicts

Versions are opaque tokens. The server assigns and increments them; the client
only ever copies them back into conditional writes and compares nothing.
Writing without an expected version creates or overwrites unconditionally.
Writing with one asks the server to apply the change only if the stored
version still matches, and a mismatch comes back as a client error whose
IsConflict reports true. ListKeyVersions exists to discover current versions
cheaply before issuing such writes.

Atomicity

All transaction items of one PutObject request commit atomically on the
server: every item's new version becomes durable, or none do. The client has
no partial-success representation, so a returned error always means the whole
transaction is unapplied (or the outcome is unknown for transport failures,
which is why conditional writes are the safe thing to retry).

Retries

Only PutObject is retried, under a caller-pluggable retry.Policy consulted
after every failed attempt. Get, Delete and List surface their first
classified error untouched; a caller wanting to retry reads can wrap those
calls in retry.Do themselves. This asymmetry is deliberate: the write path is
the one whose conflict-versus-transient distinction benefits from policy, and
it is fully idempotent under version preconditions.

Errors

Failures carry a semantic kind (transport, client error, server error,
malformed response, contract violation) plus the raw status code and body
bytes, so nothing the server said is lost. A success status that violates a
mandatory-field guarantee - a GetObject response without a value - is its own
kind, distinct from undecodable bytes, because it signals a server bug rather
than a damaged payload.

*/
package vss
