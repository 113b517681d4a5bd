// Public domain.

package main

import "github.com/soniakeys/exit"

func main() {
	defer exit.Handler()
	execute()
}
