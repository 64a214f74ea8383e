// Command btreeinspect runs a small HTTP server over an in-memory
// demo btree.Tree, for poking at the library's behavior with curl or
// a browser instead of writing Go.
package main

import (
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sharedcode/btree/internal/inspect"
	_ "github.com/sharedcode/btree/internal/inspect/docs"
)

func main() {
	router := gin.Default()

	seedCount := 50
	if v := os.Getenv("BTREE_INSPECT_SEED_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			seedCount = n
		}
	}

	srv := inspect.NewServer(seedCount)
	srv.Routes(router)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	addr := os.Getenv("BTREE_INSPECT_ADDR")
	if addr == "" {
		addr = "localhost:8080"
	}
	router.Run(addr)
}
