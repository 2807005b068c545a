// Command nbang settles a gathering described in a YAML file without
// running the server.
package main

func main() {
	Execute()
}
