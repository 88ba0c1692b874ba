package validation

// SampleHTML is a deliberately broken document that trips most rules.
const SampleHTML = `<html>
<head><title></title></head>
<body>
  <img src="photo.jpg">
  <h1>Welcome</h1>
  <h3>About Us</h3>
  <input type="text">
  <a href="/page"></a>
  <div onclick="doSomething()">Click me</div>
  <table><tr><td>Data</td></tr></table>
  <a href="https://example.com" target="_blank">External Link</a>
  <video autoplay src="video.mp4"></video>
</body>
</html>`
