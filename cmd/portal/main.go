// @title       Staff Portal API
// @version     1.0
// @description Credential endpoint and account management of the staff portal.
// @BasePath    /
package main

import "github.com/99minutos/staff-portal/cmd/portal/cmd"

func main() {
	cmd.Execute()
}
