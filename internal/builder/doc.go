// Package builder unrolls a validated workflow configuration into the
// concrete dependency graph of task and data instances: it iterates cycle
// points, expands parameter cross-products, resolves temporal and
// parametric cross-references and links ordering dependencies in a final
// deferred pass.
package builder
