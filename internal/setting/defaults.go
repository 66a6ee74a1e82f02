package setting

import (
	"context"

	"campuscms/internal/models"
)

func str(s string) *string { return &s }

// Defaults are the settings a fresh site starts with.
var Defaults = []models.Setting{
	{Key: "site_name", Value: str("Fikes CMS"), Type: models.SettingText, Group: "general", Label: "Nama Situs"},
	{Key: "site_description", Value: str("Sistem Informasi Fakultas Ilmu Kesehatan"), Type: models.SettingTextarea, Group: "general", Label: "Deskripsi Situs"},
	{Key: "logo", Type: models.SettingImage, Group: "general", Label: "Logo"},
	{Key: "footer_text", Value: str("© 2026 Fikes CMS. All rights reserved."), Type: models.SettingTextarea, Group: "general", Label: "Teks Footer"},

	{Key: "contact_email", Value: str("info@fikes.ac.id"), Type: models.SettingText, Group: "contact", Label: "Email"},
	{Key: "contact_phone", Value: str("(0762) 123456"), Type: models.SettingText, Group: "contact", Label: "Telepon"},
	{Key: "contact_address", Value: str("Jl. Tuanku Tambusai No. 23\nBangkinang Kota, Riau"), Type: models.SettingTextarea, Group: "contact", Label: "Alamat"},

	{Key: "facebook_url", Value: str(""), Type: models.SettingText, Group: "social", Label: "Facebook URL"},
	{Key: "instagram_url", Value: str(""), Type: models.SettingText, Group: "social", Label: "Instagram URL"},
	{Key: "youtube_url", Value: str(""), Type: models.SettingText, Group: "social", Label: "YouTube URL"},

	{Key: "homepage_display", Value: str("default"), Type: models.SettingSelect, Group: "homepage", Label: "Tampilan Beranda"},
	{Key: "homepage_page_id", Value: str(""), Type: models.SettingSelect, Group: "homepage", Label: "Halaman Statis"},
}

// Seed defines the default settings. Existing values are left alone.
func (r *Repository) Seed(ctx context.Context) error {
	for _, s := range Defaults {
		if err := r.Define(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
