// Package contract checks architectural import rules against a graph.
//
// Contracts are declared in a TOML file:
//
//	name = "shop"
//
//	[[contracts]]
//	name = "web does not touch the database"
//	type = "forbidden"
//	source_modules = ["shop.web"]
//	forbidden_modules = ["shop.db"]
//	ignore_imports = ["shop.web.health -> shop.db"]
//
//	[[contracts]]
//	name = "layered"
//	type = "layers"
//	containers = ["shop"]
//	layers = ["web", "orders", "db"]
//
// A forbidden contract is broken when any source module reaches any
// forbidden module. A layers contract is broken when a lower layer reaches
// a higher one (layers are listed high to low). Every violation carries
// all shortest chains between the two modules so the offending imports
// can be found. With as_packages (the default) a package on the receiving
// side stands for every module inside it, and each reached module is a
// separate violation.
//
// [Check] runs all contracts of a [Config] and returns a [Report].
package contract
