package httpapi

import (
	"fmt"
	"net/http"

	"postsapi/internal/service"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

const (
	apiTitle   = "Posts API"
	apiVersion = "0.1.0"
)

// NewOpenAPI describes the /posts routes. Schemas are generated from the
// request and response types.
func NewOpenAPI() (*openapi3.T, error) {
	schemas := openapi3.Schemas{}

	postRef, err := openapi3gen.NewSchemaRefForValue(&PostResponse{}, schemas)
	if err != nil {
		return nil, fmt.Errorf("post schema: %w", err)
	}
	createRef, err := openapi3gen.NewSchemaRefForValue(&service.CreatePostRequest{}, schemas)
	if err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	updateRef, err := openapi3gen.NewSchemaRefForValue(&service.UpdatePostRequest{}, schemas)
	if err != nil {
		return nil, fmt.Errorf("update schema: %w", err)
	}
	for _, ref := range []*openapi3.SchemaRef{createRef, updateRef} {
		ref.Value.Required = []string{"title", "content", "author"}
	}

	postList := openapi3.NewArraySchema().WithItems(postRef.Value)
	idParam := &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewInt64Schema()),
	}

	doc := &openapi3.T{
		OpenAPI:    "3.0.3",
		Info:       &openapi3.Info{Title: apiTitle, Version: apiVersion},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: schemas},
	}

	list := operation("listPosts", "List posts")
	list.AddResponse(http.StatusOK, jsonResponse("All posts in id order", openapi3.NewSchemaRef("", postList)))
	doc.AddOperation("/posts/", http.MethodGet, list)

	create := operation("createPost", "Create a post")
	create.RequestBody = jsonBody(createRef)
	create.AddResponse(http.StatusOK, jsonResponse("Created post", postRef))
	create.AddResponse(http.StatusUnprocessableEntity, openapi3.NewResponse().WithDescription("Validation error"))
	doc.AddOperation("/posts/", http.MethodPost, create)

	get := operation("getPost", "Get a post")
	get.Parameters = openapi3.Parameters{idParam}
	get.AddResponse(http.StatusOK, jsonResponse("The post", postRef))
	get.AddResponse(http.StatusNotFound, openapi3.NewResponse().WithDescription(detailNotFound))
	get.AddResponse(http.StatusUnprocessableEntity, openapi3.NewResponse().WithDescription("Validation error"))
	doc.AddOperation("/posts/{id}", http.MethodGet, get)

	update := operation("updatePost", "Replace a post's title, content and author")
	update.Parameters = openapi3.Parameters{idParam}
	update.RequestBody = jsonBody(updateRef)
	update.AddResponse(http.StatusOK, jsonResponse("Updated post", postRef))
	update.AddResponse(http.StatusNotFound, openapi3.NewResponse().WithDescription(detailNotFound))
	update.AddResponse(http.StatusUnprocessableEntity, openapi3.NewResponse().WithDescription("Validation error"))
	doc.AddOperation("/posts/{id}", http.MethodPut, update)

	return doc, nil
}

func operation(id, summary string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Responses = openapi3.NewResponses()
	return op
}

func jsonResponse(description string, schema *openapi3.SchemaRef) *openapi3.Response {
	return openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchemaRef(schema)
}

func jsonBody(schema *openapi3.SchemaRef) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(schema),
	}
}
