package datasource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/domain"
)

var exampleFiles = map[string]string{
	"influencers.csv": `id,name,category,gender,follower_count,platform
1,John Doe,Fitness,Male,100000,Instagram
2,Jane Smith,Wellness,Female,80000,YouTube
3,Alex Lee,Nutrition,Non-binary,50000,Instagram
`,
	"posts.csv": `influencer_id,platform,date,url,caption,reach,likes,comments
1,Instagram,2023-07-01,https://insta.com/1,Check out this product,5000,100,10
2,YouTube,2023-07-03,https://yt.com/2,Amazing results!,8000,200,20
3,Instagram,2023-07-05,https://insta.com/3,Healthy living,3000,50,5
`,
	"tracking.csv": `source,campaign,influencer_id,user_id,product,date,orders,revenue
influencer,MuscleBlaze_Protein_1,1,user1,Protein Powder,2023-07-02,1,2000
influencer,MuscleBlaze_Protein_1,1,user2,Protein Powder,2023-07-03,2,4000
influencer,Herbalife_Tea_2,2,user3,Herbal Tea,2023-07-04,1,1500
influencer,MuscleBlaze_Protein_1,3,user4,Protein Powder,2023-07-05,1,1000
`,
	"payouts.csv": `influencer_id,campaign,basis,rate,orders,total_payout
1,MuscleBlaze_Protein_1,order,100,3,300
2,Herbalife_Tea_2,order,150,1,150
3,MuscleBlaze_Protein_1,order,120,1,120
`,
}

func TestExampleSource(t *testing.T) {
	ds, err := ExampleSource{}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Influencers, 3)
	assert.Len(t, ds.Posts, 3)
	assert.Len(t, ds.Tracking, 4)
	assert.Len(t, ds.Payouts, 3)

	ds.Influencers[0].Name = "changed"
	assert.Equal(t, "John Doe", Example().Influencers[0].Name)
}

func TestDirSourceMatchesExample(t *testing.T) {
	dir := t.TempDir()
	for name, content := range exampleFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	src := NewDirSource(dir, nil)
	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Example(), ds)
	assert.Equal(t, "dir:"+dir, src.Name())
}

func TestDirSourceMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "influencers.csv"), []byte(exampleFiles["influencers.csv"]), 0644))

	_, err := NewDirSource(dir, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDirSourceSchemaError(t *testing.T) {
	dir := t.TempDir()
	for name, content := range exampleFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "payouts.csv"), []byte("influencer_id,campaign\n1,A\n"), 0644))

	_, err := NewDirSource(dir, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

type fakeS3 struct {
	objects map[string]string
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.keys = append(f.keys, *in.Bucket+"/"+*in.Key)
	body, ok := f.objects[*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string]string{}}
	for name, content := range exampleFiles {
		client.objects["inputs/"+name] = content
	}
	client.objects["inputs/tracking_data.csv"] = exampleFiles["tracking.csv"]

	files, err := fileNames(map[string]string{"tracking_data": "tracking_data.csv"})
	require.NoError(t, err)

	src := NewS3Source(client, "roi-bucket", "inputs", files)
	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Example(), ds)
	assert.Equal(t, []string{
		"roi-bucket/inputs/influencers.csv",
		"roi-bucket/inputs/posts.csv",
		"roi-bucket/inputs/tracking_data.csv",
		"roi-bucket/inputs/payouts.csv",
	}, client.keys)
	assert.Equal(t, "s3://roi-bucket/inputs", src.Name())
}

func TestS3SourceMissingObject(t *testing.T) {
	_, err := NewS3Source(&fakeS3{}, "roi-bucket", "", nil).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "influencers.csv")
}

func TestSQLSource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, category, gender, follower_count, platform FROM roster").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "gender", "follower_count", "platform"}).
			AddRow(int64(1), "John Doe", "Fitness", "Male", int64(100000), "Instagram").
			AddRow(int64(2), "Jane Smith", nil, "Female", nil, "YouTube"))
	mock.ExpectQuery("SELECT influencer_id, platform, date, url, caption, reach, likes, comments FROM posts").
		WillReturnRows(sqlmock.NewRows([]string{"influencer_id", "platform", "date", "url", "caption", "reach", "likes", "comments"}))
	mock.ExpectQuery("SELECT source, campaign, influencer_id, user_id, product, date, orders, revenue FROM tracking").
		WillReturnRows(sqlmock.NewRows([]string{"source", "campaign", "influencer_id", "user_id", "product", "date", "orders", "revenue"}).
			AddRow("influencer", "Herbalife_Tea_2", "2", nil, "Herbal Tea", "2023-07-04", int64(1), 1500.0).
			AddRow("influencer", nil, "9", "u", "Herbal Tea", nil, nil, nil))
	mock.ExpectQuery("SELECT influencer_id, campaign, basis, rate, orders, total_payout FROM payouts").
		WillReturnRows(sqlmock.NewRows([]string{"influencer_id", "campaign", "basis", "rate", "orders", "total_payout"}).
			AddRow("2", "Herbalife_Tea_2", "order", 150.0, int64(1), 150.0))

	tables, err := sqlTableNames(map[string]string{"influencers": "roster"})
	require.NoError(t, err)

	ds, err := NewSQLSource(db, "postgres", tables).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Influencers, 2)
	assert.Equal(t, domain.InfluencerID("1"), ds.Influencers[0].ID)
	assert.Equal(t, int64(100000), ds.Influencers[0].FollowerCount)
	assert.Equal(t, "", ds.Influencers[1].Category)
	assert.Equal(t, int64(0), ds.Influencers[1].FollowerCount)

	assert.NotNil(t, ds.Posts)
	assert.Empty(t, ds.Posts)

	require.Len(t, ds.Tracking, 2)
	assert.Equal(t, 1500.0, ds.Tracking[0].Revenue)
	assert.Equal(t, "", ds.Tracking[1].Campaign)
	assert.Equal(t, 0.0, ds.Tracking[1].Revenue)

	require.Len(t, ds.Payouts, 1)
	assert.Equal(t, 150.0, ds.Payouts[0].TotalPayout)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSourceQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name").WillReturnError(errors.New("relation does not exist"))

	_, err = NewSQLSource(db, "postgres", nil).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query influencers")
}

func TestSQLTableNamesRejectsInjection(t *testing.T) {
	_, err := sqlTableNames(map[string]string{"payouts": "payouts; DROP TABLE x"})
	assert.Error(t, err)

	tables, err := sqlTableNames(map[string]string{"tracking_data": "analytics.public.tracking"})
	require.NoError(t, err)
	assert.Equal(t, "analytics.public.tracking", tables[domain.TableTracking])
}

func TestNewSource(t *testing.T) {
	ctx := context.Background()

	src, err := NewSource(ctx, config.DataSourceConfig{Type: "example"})
	require.NoError(t, err)
	assert.Equal(t, "example", src.Name())

	src, err = NewSource(ctx, config.DataSourceConfig{Type: "dir", Dir: "/data/roi"})
	require.NoError(t, err)
	assert.IsType(t, &DirSource{}, src)

	_, err = NewSource(ctx, config.DataSourceConfig{Type: "ftp"})
	assert.True(t, errors.Is(err, ErrUnknownSource))

	_, err = NewSource(ctx, config.DataSourceConfig{Type: "dir", Files: map[string]string{"orders": "x.csv"}})
	assert.Error(t, err)

	_, err = NewSource(ctx, config.DataSourceConfig{Type: "sql", Driver: "mysql", DSN: "x"})
	assert.True(t, errors.Is(err, ErrUnknownSource))
}
