package main

import (
	appfx "Finledger/internal/fx"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		appfx.WorkerModule,
	).Run()
}
