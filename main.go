package main

import "github.com/frahmantamala/vehicle-service-shop/cmd"

func main() {
	cmd.Execute()
}
