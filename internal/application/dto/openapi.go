package dto

type GetOpenAPISpecQuery struct{}

type GetOpenAPISpecOutput struct {
	ContentType string
	Content     []byte
}
