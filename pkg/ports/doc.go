/*
Package ports defines the driven ports of the blackboard library.

# Key Interfaces

  - TemplateStore: persists registry templates as snapshot documents.
  - DistributedLocker: serializes template publication across replicas.

RunTemplateStoreContract checks any TemplateStore implementation against the
behaviour the library relies on.
*/
package ports
