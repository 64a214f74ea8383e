// Package inspect implements a small HTTP server for browsing and
// mutating a btree.Tree[map[string]any] with ordinary REST tools —
// curl, Postman, a browser — instead of writing Go to exercise it.
package inspect

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sharedcode/btree"
)

// Server holds the demo tree and the comparator it was built with.
// Handlers hold Server's read lock while they read the tree and its
// write lock while they replace it.
type Server struct {
	mu   sync.RWMutex
	tree btree.Tree[map[string]any]
	cmp  btree.Comparator[map[string]any]
}

func byIDField(a, b map[string]any) int {
	as, _ := a["id"].(string)
	bs, _ := b["id"].(string)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

// NewServer returns a Server seeded with seedCount generated demo items.
func NewServer(seedCount int) *Server {
	s := &Server{cmp: byIDField}
	items := make([]map[string]any, 0, seedCount)
	for i := 0; i < seedCount; i++ {
		items = append(items, map[string]any{
			"id":    uuid.NewString(),
			"index": i,
		})
	}
	s.tree = btree.Build(s.cmp, items)
	return s
}

// Routes registers the inspector's endpoints onto router under
// "/api/v1/tree", gated by requireBearerToken. The swagger UI at
// "/swagger/*any" is registered separately by the btreeinspect command.
func (s *Server) Routes(router *gin.Engine) {
	v1 := router.Group("/api/v1/tree")
	v1.GET("/stats", requireBearerToken(s.getStats))
	v1.GET("/wellformed", requireBearerToken(s.getWellFormed))
	v1.GET("/range", requireBearerToken(s.getRange))
	v1.GET("/items/:id", requireBearerToken(s.getItem))
	v1.POST("/items", requireBearerToken(s.postItems))
}

// getStats godoc
// @Summary Report the tree's size
// @Description Returns the number of items currently stored.
// @Produce json
// @Success 200 {object} map[string]any
// @Router /tree/stats [get]
func (s *Server) getStats(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c.IndentedJSON(http.StatusOK, gin.H{
		"count": s.tree.Len(),
		"empty": s.tree.IsEmpty(),
	})
}

// getWellFormed godoc
// @Summary Check the tree's structural invariants
// @Param fanFactor query int false "fan factor the tree was built with"
// @Produce json
// @Success 200 {object} map[string]any
// @Router /tree/wellformed [get]
func (s *Server) getWellFormed(c *gin.Context) {
	fanFactor := btree.DefaultFanFactor
	if v := c.Query("fanFactor"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			fanFactor = n
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	violations := btree.CheckWellFormed(s.tree, s.cmp, fanFactor)
	resp := gin.H{"wellFormed": len(violations) == 0}
	if len(violations) > 0 {
		details := make([]string, len(violations))
		for i, v := range violations {
			details[i] = v.String()
		}
		resp["violations"] = details
	}
	c.IndentedJSON(http.StatusOK, resp)
}

// getRange godoc
// @Summary List items with id in [from, to]
// @Param from query string false "inclusive lower id bound"
// @Param to query string false "inclusive upper id bound"
// @Param limit query int false "maximum items to return"
// @Produce json
// @Success 200 {object} []map[string]any
// @Router /tree/range [get]
func (s *Server) getRange(c *gin.Context) {
	var opts []btree.RangeOption[map[string]any]
	if from := c.Query("from"); from != "" {
		opts = append(opts, btree.From(map[string]any{"id": from}))
	}
	if to := c.Query("to"); to != "" {
		opts = append(opts, btree.To(map[string]any{"id": to}))
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]map[string]any, 0, 64)
	cur := btree.NewCursor(s.tree, s.cmp, opts...)
	for {
		v, ok := cur.Next()
		if !ok {
			break
		}
		items = append(items, v)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	c.IndentedJSON(http.StatusOK, items)
}

// getItem godoc
// @Summary Point lookup by id
// @Param id path string true "item id"
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /tree/items/{id} [get]
func (s *Server) getItem(c *gin.Context) {
	id := c.Param("id")

	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := btree.Find(s.tree, s.cmp, map[string]any{"id": id})
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "no item with that id"})
		return
	}
	c.IndentedJSON(http.StatusOK, item)
}

// postItems godoc
// @Summary Insert or replace items
// @Description Items without an "id" field are assigned a generated one.
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /tree/items [post]
func (s *Server) postItems(c *gin.Context) {
	var incoming []map[string]any
	if err := c.BindJSON(&incoming); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	for _, item := range incoming {
		if _, ok := item["id"].(string); !ok {
			item["id"] = uuid.NewString()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = btree.Update(s.tree, s.cmp, incoming)
	c.IndentedJSON(http.StatusOK, gin.H{"count": s.tree.Len()})
}
