package controller

import (
	"sort"

	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

// FormSchema 表单字段描述，供前端渲染控件
type FormSchema struct {
	Name   string                 `json:"name"`
	Fields []validation.FieldSpec `json:"fields"`
}

type FormController struct{}

func NewFormController() *FormController {
	return &FormController{}
}

// @Summary 全部表单描述
// @Tags 表单
// @Produce json
// @Success 200 {object} util.Response{data=[]FormSchema}
// @Router /api/forms [get]
func (c *FormController) List(ctx *gin.Context) {
	schemas := validation.Schemas()
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]FormSchema, 0, len(names))
	for _, name := range names {
		list = append(list, FormSchema{Name: name, Fields: schemas[name].Fields()})
	}
	util.Success(ctx, list)
}

// @Summary 单个表单描述
// @Tags 表单
// @Produce json
// @Param name path string true "表单名，如 goal"
// @Success 200 {object} util.Response{data=FormSchema}
// @Failure 404 {object} util.Response
// @Router /api/forms/{name} [get]
func (c *FormController) Get(ctx *gin.Context) {
	name := ctx.Param("name")
	form, ok := validation.Schemas()[name]
	if !ok {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, FormSchema{Name: name, Fields: form.Fields()})
}
