/*
Package mobynet discovers the names resolvable from inside a Docker container,
as well as the container's network namespace, so that names can be resolved
and addresses verified from the perspective of that container.
*/
package mobynet
