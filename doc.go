/*
xpdo: programmatic SQL statement builder for MySQL-flavored SQL. Renders
SELECT, INSERT, UPDATE, DELETE and SHOW statements with named bind parameters
such as ":_<id>_where_username", plus a mapping of those names to values, ready
for a prepared-statement executor. The sibling package "dbx" is such an
executor for "database/sql".

Key Features

• Fluent mutable builder: `Query` methods mutate and return the receiver.

• Bind names are namespaced by a per-query identity, so sub-queries can be
embedded into parent queries without parameter collisions.

• Where-values are an explicit sum type: `Val`, `In`, `Sub`, `Raw`, `*Like`.

• Re-rendering a query never leaks binds from a previous render.

• Supports converting structs to assignments and conditions via `db` tags.

• Classifies raw SQL by its leading verb via `Verb`.

Trust boundary

Table names, field expressions, where keys, join conditions, orderings,
groupings and raw fragments are emitted verbatim. Only values routed through
bind parameters are protected from injection. Use `Query.ParseOrderBy` for
orderings that come from untrusted input.

Examples

See `Query`, `Query.Build`, `Sub`, `Like` for examples.
*/
package xpdo
