package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPublicID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned url with extension",
			url:  "https://res.cloudinary.com/demo/image/upload/v1712345678/avatars/user-1.png",
			want: "avatars/user-1",
		},
		{
			name: "unversioned url",
			url:  "https://res.cloudinary.com/demo/image/upload/avatars/user-1.jpg",
			want: "avatars/user-1",
		},
		{
			name: "nested folders",
			url:  "https://res.cloudinary.com/demo/image/upload/v1/task-manager/avatars/user-1.webp",
			want: "task-manager/avatars/user-1",
		},
		{
			name: "no extension",
			url:  "https://res.cloudinary.com/demo/image/upload/v99/avatars/user-1",
			want: "avatars/user-1",
		},
		{
			name: "not a cloudinary url",
			url:  "https://example.com/upload/v1/avatars/user-1.png",
			want: "",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractPublicID(tc.url))
		})
	}
}
