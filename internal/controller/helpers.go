package controller

import (
	"strconv"

	"skill_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = 20
	}
	return page, limit
}

// pathID 解析 :id，非法时直接返回 404
func pathID(ctx *gin.Context) (uint, bool) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.NotFound(ctx)
		return 0, false
	}
	return id, true
}

// currentUser 路由都挂在 AuthMiddleware 之后，这里只做兜底
func currentUser(ctx *gin.Context) (*util.Claims, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return user, true
}

func bindForm(ctx *gin.Context, form interface{}) bool {
	if err := ctx.ShouldBind(form); err != nil {
		util.BadRequest(ctx, err.Error())
		return false
	}
	return true
}
