package minio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"http://localhost:9000/product-images/products/prod1/a.jpg",
		objectURL("http://localhost:9000", "product-images", "products/prod1/a.jpg"))
	assert.Equal(t,
		"https://cdn.example.com/imgs/products/prod1/a.jpg",
		objectURL("https://cdn.example.com", "imgs", "/products/prod1/a.jpg"))
}
