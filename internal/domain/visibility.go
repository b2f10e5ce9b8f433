package domain

// CanRead 统一可见性判定：公开实体任何人可读，
// 私有实体仅所有者可读。匿名请求者requesterID为空。
// 歌曲与歌单读取路径必须共用此判定。
func CanRead(isPublic bool, ownerID, requesterID string) bool {
	if isPublic {
		return true
	}
	return requesterID != "" && requesterID == ownerID
}
