// Command reminders resuelve las fechas de recordatorio de las facturas de un usuario y las
// entrega a la cola asynq (enqueue) o las imprime (list).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
