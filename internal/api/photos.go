package api

import (
	"context"
	"net/http"
)

type uploadPhotoRequest struct {
	ImageBase64 string `json:"image_base64"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// UploadPhoto uploads a base64-encoded photo. The backend runs its own
// moderation pass and may reject the upload with a 400.
func (c *Client) UploadPhoto(ctx context.Context, imageBase64, category, description string) (*Photo, error) {
	var p Photo
	err := c.do(ctx, http.MethodPost, "/photos", uploadPhotoRequest{
		ImageBase64: imageBase64,
		Category:    category,
		Description: description,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MyPhotos returns the current user's approved photos, newest first.
func (c *Client) MyPhotos(ctx context.Context) ([]Photo, error) {
	var photos []Photo
	if err := c.do(ctx, http.MethodGet, "/photos/mine", nil, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// Feed returns the photo feed (friends and suggested users, blocked
// users excluded server-side).
func (c *Client) Feed(ctx context.Context) ([]Photo, error) {
	var photos []Photo
	if err := c.do(ctx, http.MethodGet, "/photos/feed", nil, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// DeletePhoto deletes one of the current user's photos.
func (c *Client) DeletePhoto(ctx context.Context, photoID string) error {
	return c.do(ctx, http.MethodDelete, "/photos/"+photoID, nil, nil)
}

// Avatars returns the selectable avatar catalog.
func (c *Client) Avatars(ctx context.Context) ([]Avatar, error) {
	var avatars []Avatar
	if err := c.do(ctx, http.MethodGet, "/avatars", nil, &avatars); err != nil {
		return nil, err
	}
	return avatars, nil
}
